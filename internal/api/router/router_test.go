package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"gotransfer/internal/api/branch"
	"gotransfer/internal/api/router"
	"gotransfer/internal/api/stock"
	"gotransfer/internal/api/transfer"
	"gotransfer/internal/credential"
	"gotransfer/internal/domain"
	"gotransfer/internal/pkg/cache"
	"gotransfer/internal/pkg/database"
	"gotransfer/internal/pkg/logger"
	"gotransfer/internal/pkg/token"
	"gotransfer/internal/repository/branchrepo"
	"gotransfer/internal/repository/credentialrepo"
	"gotransfer/internal/repository/sliprepo"
	"gotransfer/internal/repository/stockrepo"
	"gotransfer/internal/service/branchservice"
	"gotransfer/internal/service/stockservice"
	"gotransfer/internal/service/transferservice"
	"gotransfer/internal/slipcode"
)

type testServer struct {
	*httptest.Server
	tokens *token.Service
	qr     string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	log := logger.NewNop()
	db := database.NewTestDB(t)

	slips := sliprepo.NewSlipRepository(db, 5*time.Second, log)
	stockRepo := stockrepo.NewStockRepository(db, 5*time.Second, log)
	branches := branchrepo.NewBranchRepository(db, 5*time.Second, log)
	creds := credentialrepo.NewCredentialRepository(db, 5*time.Second, log)

	for _, b := range []domain.Branch{{ID: "B1", Name: "Loja Centro"}, {ID: "B2", Name: "Loja Norte"}} {
		_, err := branches.CreateBranch(ctx, b)
		require.NoError(t, err)
	}
	hash, err := credential.HashPIN("123456", bcrypt.MinCost)
	require.NoError(t, err)
	_, err = creds.Save(ctx, domain.StaffCredential{BranchID: "B2", StaffID: "maria", PINHash: hash})
	require.NoError(t, err)

	slip, err := slips.Create(ctx, domain.TransferSlip{
		ID: "S1", TransferID: "T1", ProductID: "P1", ProductName: "Café 500g",
		Quantity: 5, FromBranch: "B1", ToBranch: "B2",
	})
	require.NoError(t, err)
	qr, err := slipcode.Encode(slipcode.NewRef(slip))
	require.NoError(t, err)

	memCache := cache.NewMemoryClient()
	lockout := credential.NewLockout(memCache, 5, 15*time.Minute, log)
	transferSvc := transferservice.NewService(slips, stockRepo, credential.NewVerifier(creds, log), lockout, branches, time.Second, log)

	tokens := token.NewService("segredo-de-teste", time.Hour)
	handler := router.NewRouter(router.Handlers{
		Transfer: transfer.NewHandler(transferSvc, log),
		Branch:   branch.NewHandler(branchservice.NewService(branches, log), log),
		Stock:    stock.NewHandler(stockservice.NewService(stockRepo, log), log),
	}, tokens, memCache, router.RateLimit{MaxRequests: 1000, Period: time.Minute}, log)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testServer{Server: srv, tokens: tokens, qr: qr}
}

func (s *testServer) do(t *testing.T, method, path, role, contentType string, body []byte) (*http.Response, []byte) {
	t.Helper()

	req, err := http.NewRequest(method, s.URL+path, bytes.NewReader(body))
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if role != "" {
		bearer, err := s.tokens.GenerateToken("op-"+role, role, "B2")
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func (s *testServer) postJSON(t *testing.T, path, role string, payload interface{}) (*http.Response, []byte) {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return s.do(t, http.MethodPost, path, role, "application/json", body)
}

func TestPing(t *testing.T) {
	srv := newTestServer(t)

	resp, body := srv.do(t, http.MethodGet, "/ping", "", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pong", string(body))
}

func TestSwaggerDocIsServed(t *testing.T) {
	srv := newTestServer(t)

	resp, body := srv.do(t, http.MethodGet, "/swagger/doc.json", "", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "/v1/slips/receive")
}

func TestV1RequiresToken(t *testing.T) {
	srv := newTestServer(t)

	resp, body := srv.postJSON(t, "/v1/slips/scan", "", domain.ScanRequest{Token: srv.qr})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var errResp domain.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp))
	assert.Equal(t, "UNAUTHORIZED", errResp.Category)
}

func TestScanReceiveFlow(t *testing.T) {
	srv := newTestServer(t)
	staff := string(domain.RoleStaff)

	// Leitura via JSON.
	resp, body := srv.postJSON(t, "/v1/slips/scan", staff, domain.ScanRequest{Token: srv.qr})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var scanned domain.SlipDetail
	require.NoError(t, json.Unmarshal(body, &scanned))
	assert.Equal(t, "S1", scanned.ID)
	assert.Equal(t, domain.SlipInTransit, scanned.Status)
	assert.Equal(t, "Loja Norte", scanned.ToBranchName)

	// Leitura do texto cru do leitor.
	resp, body = srv.do(t, http.MethodPost, "/v1/slips/scan", staff, "text/plain; charset=utf-8", []byte(srv.qr+"\n"))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	// PIN errado.
	resp, body = srv.postJSON(t, "/v1/slips/receive", staff, domain.ReceiveRequest{SlipID: "S1", PIN: "000000"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	var errResp domain.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp))
	assert.Equal(t, "DENIED_CREDENTIAL", errResp.Category)

	// PIN certo.
	resp, body = srv.postJSON(t, "/v1/slips/receive", staff, domain.ReceiveRequest{SlipID: "S1", PIN: "123456"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var received domain.SlipDetail
	require.NoError(t, json.Unmarshal(body, &received))
	assert.Equal(t, domain.SlipCompleted, received.Status)
	assert.Equal(t, "maria", received.ReceivedBy)

	// Repetição: 409 informativo com o status atual.
	resp, body = srv.postJSON(t, "/v1/slips/receive", staff, domain.ReceiveRequest{SlipID: "S1", PIN: "123456"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	errResp = domain.ErrorResponse{}
	require.NoError(t, json.Unmarshal(body, &errResp))
	assert.Equal(t, "INVALID_STATE", errResp.Category)
	assert.True(t, errResp.Informational)
	assert.Equal(t, domain.SlipCompleted, errResp.CurrentStatus)

	// Estoque creditado uma vez.
	resp, body = srv.do(t, http.MethodGet, "/v1/stock?product_id=P1&branch_id=B2", staff, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var level domain.StockLevel
	require.NoError(t, json.Unmarshal(body, &level))
	assert.Equal(t, 5, level.Quantity)
}

func TestScanErrors(t *testing.T) {
	srv := newTestServer(t)
	staff := string(domain.RoleStaff)

	tests := []struct {
		name     string
		token    string
		status   int
		category string
	}{
		{"malformado", "isto não é json", http.StatusBadRequest, "MALFORMED_TOKEN"},
		{"outro tipo", `{"type":"loyalty_card","transferId":"T1","slipId":"S1"}`, http.StatusUnprocessableEntity, "UNSUPPORTED_TOKEN_TYPE"},
		{"guia inexistente", `{"type":"transfer_slip","transferId":"T1","slipId":"S404"}`, http.StatusNotFound, "SLIP_NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := srv.postJSON(t, "/v1/slips/scan", staff, domain.ScanRequest{Token: tt.token})
			assert.Equal(t, tt.status, resp.StatusCode)
			var errResp domain.ErrorResponse
			require.NoError(t, json.Unmarshal(body, &errResp))
			assert.Equal(t, tt.category, errResp.Category)
		})
	}
}

func TestCancelRequiresLogisticsRole(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := srv.postJSON(t, "/v1/slips/S1/cancel", string(domain.RoleStaff), domain.CancelRequest{Reason: "avaria"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := srv.postJSON(t, "/v1/slips/S1/cancel", string(domain.RoleLogistics), domain.CancelRequest{Reason: "avaria"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var cancelled domain.SlipDetail
	require.NoError(t, json.Unmarshal(body, &cancelled))
	assert.Equal(t, domain.SlipCancelled, cancelled.Status)

	resp, _ = srv.postJSON(t, "/v1/slips/receive", string(domain.RoleStaff), domain.ReceiveRequest{SlipID: "S1", PIN: "123456"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestBranchEndpoints(t *testing.T) {
	srv := newTestServer(t)
	staff := string(domain.RoleStaff)

	resp, body := srv.do(t, http.MethodGet, "/v1/branches", staff, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var branches []domain.Branch
	require.NoError(t, json.Unmarshal(body, &branches))
	assert.Len(t, branches, 2)

	resp, _ = srv.do(t, http.MethodGet, "/v1/branches/B9", staff, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = srv.do(t, http.MethodGet, "/v1/branches/B2/slips?status=in_transit", staff, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var slips []domain.SlipDetail
	require.NoError(t, json.Unmarshal(body, &slips))
	require.Len(t, slips, 1)
	assert.Equal(t, "S1", slips[0].ID)

	resp, _ = srv.do(t, http.MethodGet, "/v1/branches/B2/slips?status=lost", staff, "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := srv.do(t, http.MethodGet, "/v1/slips/receive", string(domain.RoleStaff), "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
