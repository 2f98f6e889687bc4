package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/MikhailRaia/link-rewards/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) registeredUserWithBalance(t *testing.T, email string, balance model.Money) string {
	t.Helper()

	e.register(t, "User", email, "s3cret")
	token, user := e.login(t, email, "s3cret")
	if balance > 0 {
		require.NoError(t, e.store.CreditBalance(context.Background(), user.ID, balance))
	}
	return token
}

func TestHandler_Withdraw(t *testing.T) {
	env := newTestEnv(t)
	token := env.registeredUserWithBalance(t, "alice@example.com", 1200)

	rr := env.do(t, http.MethodPost, "/withdraw", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp withdrawResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, model.Money(1200), resp.Withdrawal.Amount)
	assert.Equal(t, model.WithdrawalPending, resp.Withdrawal.Status)

	// the snapshot emptied the balance, so a second request fails
	rr = env.do(t, http.MethodPost, "/withdraw", token, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_Withdraw_InsufficientBalance(t *testing.T) {
	env := newTestEnv(t)
	token := env.registeredUserWithBalance(t, "alice@example.com", 999)

	rr := env.do(t, http.MethodPost, "/withdraw", token, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_Withdraw_RequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/withdraw", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestHandler_ApproveWithdrawal(t *testing.T) {
	env := newTestEnv(t)
	token := env.registeredUserWithBalance(t, "alice@example.com", 1200)

	rr := env.do(t, http.MethodPost, "/withdraw", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp withdrawResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	rr = env.do(t, http.MethodPost, "/admin/approve-withdrawal/"+resp.Withdrawal.ID, testAdminToken, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	// re-approving an approved request stays OK
	rr = env.do(t, http.MethodPost, "/admin/approve-withdrawal/"+resp.Withdrawal.ID, testAdminToken, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	w, err := env.store.GetWithdrawal(context.Background(), resp.Withdrawal.ID)
	require.NoError(t, err)
	assert.Equal(t, model.WithdrawalApproved, w.Status)
}

func TestHandler_ApproveWithdrawal_NotFound(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/admin/approve-withdrawal/missing-id", testAdminToken, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandler_AdminEndpoints_RejectNonAdmins(t *testing.T) {
	env := newTestEnv(t)
	userToken := env.registeredUserWithBalance(t, "alice@example.com", 0)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
	}{
		{
			name:   "Approve without token",
			method: http.MethodPost,
			path:   "/admin/approve-withdrawal/some-id",
			token:  "",
		},
		{
			name:   "Approve with user token",
			method: http.MethodPost,
			path:   "/admin/approve-withdrawal/some-id",
			token:  userToken,
		},
		{
			name:   "List without token",
			method: http.MethodGet,
			path:   "/admin/withdrawals",
			token:  "",
		},
		{
			name:   "List with wrong token",
			method: http.MethodGet,
			path:   "/admin/withdrawals",
			token:  "wrong-token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(t, tt.method, tt.path, tt.token, nil)
			assert.Equal(t, http.StatusForbidden, rr.Code)
		})
	}
}

func TestHandler_PendingWithdrawals(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, "/admin/withdrawals", testAdminToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]\n", rr.Body.String(), "no requests yet must render an empty array")

	token := env.registeredUserWithBalance(t, "alice@example.com", 1200)
	rr = env.do(t, http.MethodPost, "/withdraw", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = env.do(t, http.MethodGet, "/admin/withdrawals", testAdminToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var pending []model.WithdrawalRequest
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &pending))
	require.Len(t, pending, 1)
	assert.Equal(t, model.Money(1200), pending[0].Amount)
}
