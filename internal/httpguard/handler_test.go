package httpguard

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/vaultcore/vault/domain"
)

// fakeVault is a hand-rolled vault.UseCase double: the interface is small
// enough that a mock generator adds no clarity over a direct stub.
type fakeVault struct {
	status             domain.Status
	statusErr          error
	unsealed           bool
	initializeRecovery string
	initializeErr      error
	unsealErr          error
	unsealRecoveryErr  error
	sealErr            error
	changePasswordErr  error
	encryptResult      string
	encryptErr         error
	decryptResult      string
	decryptErr         error

	lastPassword    string
	lastOldPassword string
	lastNewPassword string
	lastRecovery    string
	lastPlaintext   string
	lastCiphertext  string
	lastAAD         string
}

func (f *fakeVault) Status(ctx context.Context) (domain.Status, error) { return f.status, f.statusErr }
func (f *fakeVault) IsUnsealed() bool                                  { return f.unsealed }

func (f *fakeVault) Initialize(ctx context.Context, password string) (string, error) {
	f.lastPassword = password
	return f.initializeRecovery, f.initializeErr
}

func (f *fakeVault) Unseal(ctx context.Context, password string) error {
	f.lastPassword = password
	return f.unsealErr
}

func (f *fakeVault) UnsealWithRecovery(ctx context.Context, phrase string) error {
	f.lastRecovery = phrase
	return f.unsealRecoveryErr
}

func (f *fakeVault) Seal() error { return f.sealErr }

func (f *fakeVault) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	f.lastOldPassword = oldPassword
	f.lastNewPassword = newPassword
	return f.changePasswordErr
}

func (f *fakeVault) EncryptString(plaintext, aad string) (string, error) {
	f.lastPlaintext = plaintext
	f.lastAAD = aad
	return f.encryptResult, f.encryptErr
}

func (f *fakeVault) DecryptString(b64, aad string) (string, error) {
	f.lastCiphertext = b64
	f.lastAAD = aad
	return f.decryptResult, f.decryptErr
}

func newTestHandler(v *fakeVault) *Handler {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(v, logger)
}

func doRequest(handlerFunc gin.HandlerFunc, body interface{}) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader io.Reader = http.NoBody
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}
	c.Request = httptest.NewRequest(http.MethodPost, "/", reader)
	c.Request.Header.Set("Content-Type", "application/json")

	handlerFunc(c)
	return w
}

func TestHandler_StatusHandler(t *testing.T) {
	v := &fakeVault{status: domain.StatusSealed}
	h := newTestHandler(v)

	w := doRequest(h.StatusHandler, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "sealed", resp["status"])
}

func TestHandler_InitializeHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		v := &fakeVault{initializeRecovery: "AAAA-BBBB-CCCC-DDDD-EEEE-FFFF-0000-1111"}
		h := newTestHandler(v)

		w := doRequest(h.InitializeHandler, map[string]string{"password": "Str0ngPassword!"})
		assert.Equal(t, http.StatusCreated, w.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, v.initializeRecovery, resp["recovery_phrase"])
		assert.Equal(t, "Str0ngPassword!", v.lastPassword)
	})

	t.Run("WeakPasswordRejected", func(t *testing.T) {
		v := &fakeVault{}
		h := newTestHandler(v)

		w := doRequest(h.InitializeHandler, map[string]string{"password": "short"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, v.lastPassword)
	})

	t.Run("AlreadyInitialized", func(t *testing.T) {
		v := &fakeVault{initializeErr: domain.ErrAlreadyInitialized}
		h := newTestHandler(v)

		w := doRequest(h.InitializeHandler, map[string]string{"password": "Str0ngPassword!"})
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestHandler_UnsealHandler(t *testing.T) {
	t.Run("BadPassword", func(t *testing.T) {
		v := &fakeVault{unsealErr: domain.ErrBadPassword}
		h := newTestHandler(v)

		w := doRequest(h.UnsealHandler, map[string]string{"password": "wrong"})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Success", func(t *testing.T) {
		v := &fakeVault{}
		h := newTestHandler(v)

		w := doRequest(h.UnsealHandler, map[string]string{"password": "correct"})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "correct", v.lastPassword)
	})
}

func TestHandler_UnsealWithRecoveryHandler(t *testing.T) {
	v := &fakeVault{}
	h := newTestHandler(v)

	w := doRequest(h.UnsealWithRecoveryHandler, map[string]string{
		"recovery_phrase": "AAAA-BBBB-CCCC-DDDD-EEEE-FFFF-0000-1111",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "AAAA-BBBB-CCCC-DDDD-EEEE-FFFF-0000-1111", v.lastRecovery)
}

func TestHandler_SealHandler(t *testing.T) {
	v := &fakeVault{}
	h := newTestHandler(v)

	w := doRequest(h.SealHandler, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandler_ChangePasswordHandler(t *testing.T) {
	v := &fakeVault{}
	h := newTestHandler(v)

	w := doRequest(h.ChangePasswordHandler, map[string]string{
		"old_password": "OldPassword1!",
		"new_password": "NewPassword1!",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OldPassword1!", v.lastOldPassword)
	assert.Equal(t, "NewPassword1!", v.lastNewPassword)
}

func TestHandler_EncryptDecryptHandlers(t *testing.T) {
	v := &fakeVault{encryptResult: "AWFiY2RlZmdoaQ==", decryptResult: "hello"}
	h := newTestHandler(v)

	w := doRequest(h.EncryptHandler, map[string]string{"plaintext": "hello", "aad": "ctx"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello", v.lastPlaintext)
	assert.Equal(t, "ctx", v.lastAAD)

	var encResp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &encResp))
	assert.Equal(t, "AWFiY2RlZmdoaQ==", encResp["ciphertext"])

	w = doRequest(h.DecryptHandler, map[string]string{"ciphertext": "AWFiY2RlZmdoaQ==", "aad": "ctx"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "AWFiY2RlZmdoaQ==", v.lastCiphertext)

	var decResp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decResp))
	assert.Equal(t, "hello", decResp["plaintext"])
}

func TestHandler_DecryptHandler_Sealed(t *testing.T) {
	v := &fakeVault{decryptErr: domain.ErrSealed}
	h := newTestHandler(v)

	w := doRequest(h.DecryptHandler, map[string]string{"ciphertext": "AWFiY2RlZmdoaQ=="})
	assert.Equal(t, http.StatusLocked, w.Code)
}
