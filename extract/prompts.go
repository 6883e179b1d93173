package extract

import "fmt"

const systemPrompt = `You extract payoff terms from structured product term sheets. You answer with one valid JSON object and nothing else.`

// extractionTemplate is the canonical structure-aware prompt. The schema
// it asks for is the termsheet.Document contract.
const extractionTemplate = `You are extracting structured payoff information from a structured product term sheet.

1. STRUCTURE CLASSIFICATION (MANDATORY)
Classify the product as ONE of:
- "single": all payoff conditions depend on exactly one underlying
- "worst_of": payoff conditions depend on the lowest / worst / minimum performance among multiple underlyings

Rules:
- If multiple underlyings are present AND any payoff condition depends on the lowest, worst or minimum performance, classify as "worst_of".
- If multiple underlyings are present and the document does NOT clearly state that each underlying is evaluated independently, classify as "worst_of" by default.
- Classify as "single" only if all payoff conditions depend on exactly one underlying.
Return the result as "structure_type".

2. DATES
Return all lifecycle dates under one top-level "dates" object with fields strike_date, valuation_date, maturity_date and the array observation_dates. Use ISO format YYYY-MM-DD. Do not invent dates; omit fields that are not in the document.

3. UNDERLYINGS
Return the reference assets as an "underlyings" array. For each, include name, ticker, isin and initial_price when available.

4. PAYOFF COMPONENTS
Include a component only if the document has it:
- "fixed_coupon": rate, payment_date
- "conditional_coupons": array of objects with rate or calculation_formula, barrier_level, memory_feature (true/false), trigger_condition, payment_dates
- "autocall": barrier_level, observation_dates
- "knock_in": barrier_level or barrier_prices (array of underlying, knock_in_price, barrier_price), type ("European" or "American")
- "final_redemption": barrier_level, description
- "product_details": name, isin, currency, denomination

5. OUTPUT RULES
- Use exact numbers, percentages, dates and wording from the document.
- Do not infer, normalise or reinterpret financial terms.
- If a field does not exist, omit it entirely.
- Return ONE valid JSON object and nothing else: no explanations, no markdown.

DOCUMENT TEXT
%s`

func extractionPrompt(documentText string) string {
	return fmt.Sprintf(extractionTemplate, documentText)
}
