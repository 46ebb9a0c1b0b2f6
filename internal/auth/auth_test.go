package auth

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"pos-billing/internal/core"
	"pos-billing/internal/mocks"
)

func sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return s
}

func TestInspect(t *testing.T) {
	exp := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	tok := sign(t, jwt.MapClaims{"user_id": 12, "name": "Mona", "role": "cashier", "exp": exp.Unix()})

	id, err := Inspect(tok)
	require.NoError(t, err)
	assert.Equal(t, 12, id.UserID)
	assert.Equal(t, "Mona", id.Name)
	assert.Equal(t, "cashier", id.Role)
	assert.True(t, id.ExpiresAt.Equal(exp))
	assert.True(t, id.Expired(exp.Add(time.Second)))
	assert.False(t, id.Expired(exp.Add(-time.Second)))
}

func TestInspect_SubjectFallback(t *testing.T) {
	id, err := Inspect(sign(t, jwt.MapClaims{"sub": "31"}))
	require.NoError(t, err)
	assert.Equal(t, 31, id.UserID)
	assert.True(t, id.ExpiresAt.IsZero())
}

func TestInspect_Opaque(t *testing.T) {
	for _, tok := range []string{"1|sanctum-token", "a.b.c"} {
		_, err := Inspect(tok)
		assert.ErrorIs(t, err, ErrOpaqueToken, tok)
	}
}

func TestTokenSource(t *testing.T) {
	ts, err := NewTokenSource("  abc  ", "")
	require.NoError(t, err)
	assert.Equal(t, "abc", ts.Token())

	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("first\n"), 0o600))
	ts, err = NewTokenSource("ignored", path)
	require.NoError(t, err)
	assert.Equal(t, "first", ts.Token())

	require.NoError(t, os.WriteFile(path, []byte("second"), 0o600))
	require.NoError(t, ts.Reload())
	assert.Equal(t, "second", ts.Token())

	_, err = NewTokenSource("", filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestResolver(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	fresh := sign(t, jwt.MapClaims{"user_id": 5, "name": "Omar", "role": "manager", "exp": now.Add(time.Hour).Unix()})
	stale := sign(t, jwt.MapClaims{"user_id": 5, "role": "manager", "exp": now.Add(-time.Hour).Unix()})
	backendUser := &core.User{ID: 9, Name: "Sara", Role: "cashier"}

	testCases := []struct {
		name      string
		token     string
		mockSetup func(m *mocks.MockBackend)
		want      *core.User
		wantErr   bool
	}{
		{
			name:      "claims with role skip the backend",
			token:     fresh,
			mockSetup: func(m *mocks.MockBackend) {},
			want:      &core.User{ID: 5, Name: "Omar", Role: "manager"},
		},
		{
			name:  "expired token asks the backend",
			token: stale,
			mockSetup: func(m *mocks.MockBackend) {
				m.EXPECT().Me(gomock.Any()).Return(backendUser, nil)
			},
			want: backendUser,
		},
		{
			name:  "opaque token asks the backend",
			token: "1|sanctum",
			mockSetup: func(m *mocks.MockBackend) {
				m.EXPECT().Me(gomock.Any()).Return(backendUser, nil)
			},
			want: backendUser,
		},
		{
			name:  "backend failure",
			token: "1|sanctum",
			mockSetup: func(m *mocks.MockBackend) {
				m.EXPECT().Me(gomock.Any()).Return(nil, errors.New("401 Unauthenticated."))
			},
			wantErr: true,
		},
		{
			name:      "no token",
			token:     "",
			mockSetup: func(m *mocks.MockBackend) {},
			wantErr:   true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			m := mocks.NewMockBackend(ctrl)
			tc.mockSetup(m)

			ts, err := NewTokenSource(tc.token, "")
			require.NoError(t, err)
			r := NewResolver(ts, m, nil)
			r.now = func() time.Time { return now }

			got, err := r.Current(context.Background())
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
