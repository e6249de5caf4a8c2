package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	assetmodels "hangar/internal/asset/models"
	"hangar/internal/issuance/handler/mocks"
	"hangar/internal/issuance/store"
	"hangar/internal/platform/logger"
	"hangar/internal/platform/middleware"
	"hangar/pkg/domain"
	dErrors "hangar/pkg/domain-errors"
)

//go:generate mockgen -source=handler.go -destination=mocks/issuance-mocks.go -package=mocks Service

const hashA = "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"

type IssuanceHandlerSuite struct {
	suite.Suite
}

func TestIssuanceHandlerSuite(t *testing.T) {
	suite.Run(t, new(IssuanceHandlerSuite))
}

func (s *IssuanceHandlerSuite) newHandler() (*chi.Mux, *mocks.MockService) {
	ctrl := gomock.NewController(s.T())
	s.T().Cleanup(ctrl.Finish)
	service := mocks.NewMockService(ctrl)

	h := New(service, logger.NewTest())
	r := chi.NewRouter()
	h.Register(r)
	// Inject the caller the way RequireAuth does in production.
	r.Group(func(pr chi.Router) {
		pr.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				next.ServeHTTP(w, req.WithContext(
					middleware.WithAccount(req.Context(), "alice")))
			})
		})
		h.RegisterProtected(pr)
	})
	return r, service
}

func (s *IssuanceHandlerSuite) request(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func mintedAsset() *assetmodels.Asset {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	return assetmodels.NewAsset(1, hashA, "alice", now)
}

func (s *IssuanceHandlerSuite) TestHandleMint() {
	r, service := s.newHandler()
	service.EXPECT().
		Mint(gomock.Any(), domain.AccountID("alice"), hashA).
		Return(mintedAsset(), nil)

	rec := s.request(r, http.MethodPost, "/assets/mint", mintRequest{MetadataHash: hashA})
	s.Equal(http.StatusCreated, rec.Code)

	var resp mintResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal(domain.AssetID(1), resp.ID)
	s.Equal(domain.MetadataHash(hashA), resp.MetadataHash)
	s.Equal(domain.AccountID("alice"), resp.Owner)
}

func (s *IssuanceHandlerSuite) TestHandleMintRejectionStatuses() {
	cases := []struct {
		code   dErrors.Code
		status int
	}{
		{dErrors.CodeNotAllowlisted, http.StatusForbidden},
		{dErrors.CodeMintingDisabled, http.StatusConflict},
		{dErrors.CodeSupplyExhausted, http.StatusConflict},
		{dErrors.CodeInvalidMetadata, http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		s.Run(string(tc.code), func() {
			r, service := s.newHandler()
			service.EXPECT().
				Mint(gomock.Any(), gomock.Any(), gomock.Any()).
				Return(nil, dErrors.New(tc.code, "rejected"))

			rec := s.request(r, http.MethodPost, "/assets/mint", mintRequest{MetadataHash: hashA})
			s.Equal(tc.status, rec.Code)

			var body map[string]string
			s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
			s.Equal(string(tc.code), body["error"])
		})
	}
}

type staticValidator struct {
	account domain.AccountID
}

func (v staticValidator) ValidateToken(token string) (*middleware.JWTClaims, error) {
	if token != "good-token" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token rejected")
	}
	return &middleware.JWTClaims{Account: v.account}, nil
}

func (s *IssuanceHandlerSuite) TestHandleMintAuthGating() {
	ctrl := gomock.NewController(s.T())
	s.T().Cleanup(ctrl.Finish)
	service := mocks.NewMockService(ctrl)

	h := New(service, logger.NewTest())
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(middleware.RequireAuth(staticValidator{account: "alice"}, logger.NewTest()))
		h.RegisterProtected(pr)
	})

	s.Run("missing token is rejected before the controller", func() {
		rec := s.request(r, http.MethodPost, "/assets/mint", mintRequest{MetadataHash: hashA})
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("invalid token is rejected before the controller", func() {
		payload, err := json.Marshal(mintRequest{MetadataHash: hashA})
		s.Require().NoError(err)
		req := httptest.NewRequest(http.MethodPost, "/assets/mint", bytes.NewReader(payload))
		req.Header.Set("Authorization", "Bearer stale-token")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("authenticated caller reaches the controller as themselves", func() {
		service.EXPECT().
			Mint(gomock.Any(), domain.AccountID("alice"), hashA).
			Return(mintedAsset(), nil)

		payload, err := json.Marshal(mintRequest{MetadataHash: hashA})
		s.Require().NoError(err)
		req := httptest.NewRequest(http.MethodPost, "/assets/mint", bytes.NewReader(payload))
		req.Header.Set("Authorization", "Bearer good-token")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		s.Equal(http.StatusCreated, rec.Code)
	})
}

func (s *IssuanceHandlerSuite) TestHandleSupply() {
	r, service := s.newHandler()
	service.EXPECT().
		Supply(gomock.Any()).
		Return(store.SupplyState{Issued: 3, Limit: 10, MintEnabled: true}, nil)

	rec := s.request(r, http.MethodGet, "/supply", nil)
	s.Equal(http.StatusOK, rec.Code)

	var resp supplyResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal(uint64(3), resp.Issued)
	s.Equal(uint64(10), resp.Limit)
	s.True(resp.MintEnabled)
}

func (s *IssuanceHandlerSuite) TestHandleIsAllowlisted() {
	r, service := s.newHandler()
	service.EXPECT().
		IsAllowlisted(gomock.Any(), domain.AccountID("bob")).
		Return(false, nil)

	rec := s.request(r, http.MethodGet, "/allowlist/bob", nil)
	s.Equal(http.StatusOK, rec.Code)

	var body map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal("bob", body["account"])
	s.Equal(false, body["allowlisted"])
}

func (s *IssuanceHandlerSuite) TestHandleSetMintEnabled() {
	s.Run("administrator toggles minting", func() {
		r, service := s.newHandler()
		service.EXPECT().
			SetMintEnabled(gomock.Any(), domain.AccountID("alice"), true).
			Return(nil)

		rec := s.request(r, http.MethodPut, "/admin/minting", mintingRequest{Enabled: true})
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("non-administrator is refused", func() {
		r, service := s.newHandler()
		service.EXPECT().
			SetMintEnabled(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(dErrors.New(dErrors.CodeForbidden, "administrator only"))

		rec := s.request(r, http.MethodPut, "/admin/minting", mintingRequest{Enabled: true})
		s.Equal(http.StatusForbidden, rec.Code)
	})
}

func (s *IssuanceHandlerSuite) TestHandleSetSupplyLimit() {
	s.Run("raises the limit", func() {
		r, service := s.newHandler()
		service.EXPECT().
			SetSupplyLimit(gomock.Any(), domain.AccountID("alice"), uint64(500)).
			Return(nil)

		rec := s.request(r, http.MethodPut, "/admin/supply-limit", supplyLimitRequest{Limit: 500})
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("lowering the limit is rejected", func() {
		r, service := s.newHandler()
		service.EXPECT().
			SetSupplyLimit(gomock.Any(), domain.AccountID("alice"), uint64(1)).
			Return(dErrors.New(dErrors.CodeSupplyLimitDecrease, "limit only increases"))

		rec := s.request(r, http.MethodPut, "/admin/supply-limit", supplyLimitRequest{Limit: 1})
		s.Equal(http.StatusUnprocessableEntity, rec.Code)

		var body map[string]string
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		s.Equal(string(dErrors.CodeSupplyLimitDecrease), body["error"])
	})
}

func (s *IssuanceHandlerSuite) TestHandleAllowlistChanges() {
	s.Run("adds an operator", func() {
		r, service := s.newHandler()
		service.EXPECT().
			AllowlistAdd(gomock.Any(), domain.AccountID("alice"), domain.AccountID("bob")).
			Return(nil)

		rec := s.request(r, http.MethodPost, "/admin/allowlist/bob", nil)
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("removes an operator", func() {
		r, service := s.newHandler()
		service.EXPECT().
			AllowlistRemove(gomock.Any(), domain.AccountID("alice"), domain.AccountID("bob")).
			Return(nil)

		rec := s.request(r, http.MethodDelete, "/admin/allowlist/bob", nil)
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("non-administrator is refused", func() {
		r, service := s.newHandler()
		service.EXPECT().
			AllowlistAdd(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(dErrors.New(dErrors.CodeForbidden, "administrator only"))

		rec := s.request(r, http.MethodPost, "/admin/allowlist/bob", nil)
		s.Equal(http.StatusForbidden, rec.Code)
	})
}
