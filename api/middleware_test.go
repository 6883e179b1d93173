package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/banachtech/phoenix/config"
	"github.com/banachtech/phoenix/store"
	mockstore "github.com/banachtech/phoenix/store/mock"
)

// testUser builds a stored user whose token is the bcrypt hash of key.
// MinCost keeps the hashing fast; the middleware reads the cost from the
// hash itself.
func testUser(t *testing.T, key string, expiredAt time.Time) store.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.MinCost)
	require.NoError(t, err)
	return store.User{
		Email:       "quant@example.com",
		Prefix:      strings.Split(key, ".")[0],
		Token:       string(hash),
		GeneratedAt: time.Now().Add(-time.Hour),
		ExpiredAt:   expiredAt,
	}
}

func setBearer(t *testing.T, request *http.Request, token string) {
	t.Helper()
	authorizationHeader := fmt.Sprintf("%s %s", authorizationTypeBearer, token)
	request.Header.Set(authorizationHeaderKey, authorizationHeader)
}

func TestAuthMiddleware(t *testing.T) {
	const key = "k3PzQvW8.RGbV3hb3LEwYohYW"
	prefix := strings.Split(key, ".")[0]
	user := testUser(t, key, time.Now().Add(24*time.Hour))
	expiredUser := testUser(t, key, time.Now().Add(-24*time.Hour))

	testCases := []struct {
		name          string
		token         string
		setupAuth     func(t *testing.T, request *http.Request, token string)
		buildStubs    func(store *mockstore.MockStore)
		checkResponse func(t *testing.T, recorder *httptest.ResponseRecorder)
	}{
		{
			name:  "OK",
			token: key,
			setupAuth: func(t *testing.T, request *http.Request, token string) {
				setBearer(t, request, token)
			},
			buildStubs: func(store *mockstore.MockStore) {
				store.EXPECT().GetUser(gomock.Any(), gomock.Eq(prefix)).Times(1).Return(user, nil)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)
			},
		},
		{
			name:  "NO_AUTHORIZATION",
			token: "",
			setupAuth: func(t *testing.T, request *http.Request, token string) {
			},
			buildStubs: func(store *mockstore.MockStore) {
				store.EXPECT().GetUser(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusUnauthorized, recorder.Code)
			},
		},
		{
			name:  "UNSUPPORTED_AUTHORIZATION",
			token: key,
			setupAuth: func(t *testing.T, request *http.Request, token string) {
				request.Header.Set(authorizationHeaderKey, fmt.Sprintf("%s %s", "basic", token))
			},
			buildStubs: func(store *mockstore.MockStore) {
				store.EXPECT().GetUser(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusUnauthorized, recorder.Code)
			},
		},
		{
			name:  "INVALID_AUTHORIZATION_FORMAT",
			token: key,
			setupAuth: func(t *testing.T, request *http.Request, token string) {
				request.Header.Set(authorizationHeaderKey, token)
			},
			buildStubs: func(store *mockstore.MockStore) {
				store.EXPECT().GetUser(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusUnauthorized, recorder.Code)
			},
		},
		{
			name:  "WRONG_PREFIX_LENGTH",
			token: "k3PzQvW.RGbV3hb3LEwYohYW",
			setupAuth: func(t *testing.T, request *http.Request, token string) {
				setBearer(t, request, token)
			},
			buildStubs: func(store *mockstore.MockStore) {
				store.EXPECT().GetUser(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusUnauthorized, recorder.Code)
			},
		},
		{
			name:  "EXPIRED_KEY",
			token: key,
			setupAuth: func(t *testing.T, request *http.Request, token string) {
				setBearer(t, request, token)
			},
			buildStubs: func(store *mockstore.MockStore) {
				store.EXPECT().GetUser(gomock.Any(), gomock.Eq(prefix)).Times(1).Return(expiredUser, nil)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusUnauthorized, recorder.Code)
			},
		},
		{
			name:  "WRONG_SECRET",
			token: "k3PzQvW8.aaaaaaaaaaaaaaaa",
			setupAuth: func(t *testing.T, request *http.Request, token string) {
				setBearer(t, request, token)
			},
			buildStubs: func(store *mockstore.MockStore) {
				store.EXPECT().GetUser(gomock.Any(), gomock.Eq(prefix)).Times(1).Return(user, nil)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusUnauthorized, recorder.Code)
			},
		},
		{
			name:  "USER_NOT_FOUND",
			token: key,
			setupAuth: func(t *testing.T, request *http.Request, token string) {
				setBearer(t, request, token)
			},
			buildStubs: func(st *mockstore.MockStore) {
				st.EXPECT().GetUser(gomock.Any(), gomock.Eq(prefix)).Times(1).
					Return(store.User{}, fmt.Errorf("user %s: %w", prefix, store.ErrNotFound))
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusNotFound, recorder.Code)
			},
		},
		{
			name:  "INTERNAL_SERVER_ERROR",
			token: key,
			setupAuth: func(t *testing.T, request *http.Request, token string) {
				setBearer(t, request, token)
			},
			buildStubs: func(st *mockstore.MockStore) {
				st.EXPECT().GetUser(gomock.Any(), gomock.Eq(prefix)).Times(1).
					Return(store.User{}, errors.New("connection reset"))
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusInternalServerError, recorder.Code)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			st := mockstore.NewMockStore(ctrl)
			tc.buildStubs(st)

			server := NewServer(st, config.Config{})

			authPath := "/auth"
			server.router.GET(
				authPath,
				server.authentication,
				func(ctx *gin.Context) {
					ctx.JSON(http.StatusOK, gin.H{})
				},
			)

			recorder := httptest.NewRecorder()
			request, err := http.NewRequest(http.MethodGet, authPath, nil)
			require.NoError(t, err)

			tc.setupAuth(t, request, tc.token)
			server.router.ServeHTTP(recorder, request)
			tc.checkResponse(t, recorder)
		})
	}
}

func TestKeyLimiters(t *testing.T) {
	limiters := newKeyLimiters(rate.Every(time.Hour), 2)

	require.True(t, limiters.get("alpha").Allow())
	require.True(t, limiters.get("alpha").Allow())
	require.False(t, limiters.get("alpha").Allow())

	// Keys do not share buckets, and repeated lookups return the same bucket.
	require.True(t, limiters.get("beta").Allow())
	require.Same(t, limiters.get("alpha"), limiters.get("alpha"))
}

func TestRateLimitMiddleware(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server := NewServer(mockstore.NewMockStore(ctrl), config.Config{})
	server.router.GET("/limited", server.rateLimit, func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{})
	})

	for i := 0; i < 2; i++ {
		recorder := httptest.NewRecorder()
		request, err := http.NewRequest(http.MethodGet, "/limited", nil)
		require.NoError(t, err)
		server.router.ServeHTTP(recorder, request)
		require.Equal(t, http.StatusOK, recorder.Code)
	}

	recorder := httptest.NewRecorder()
	request, err := http.NewRequest(http.MethodGet, "/limited", nil)
	require.NoError(t, err)
	server.router.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusTooManyRequests, recorder.Code)
}

func TestHealthz(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	st := mockstore.NewMockStore(ctrl)
	st.EXPECT().Ping(gomock.Any()).Times(1).Return(nil)

	server := NewServer(st, config.Config{})
	recorder := httptest.NewRecorder()
	request, err := http.NewRequest(http.MethodGet, "/healthz", nil)
	require.NoError(t, err)
	server.router.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code)

	st.EXPECT().Ping(gomock.Any()).Times(1).Return(errors.New("connection refused"))
	recorder = httptest.NewRecorder()
	request, err = http.NewRequest(http.MethodGet, "/healthz", nil)
	require.NoError(t, err)
	server.router.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusServiceUnavailable, recorder.Code)
}
