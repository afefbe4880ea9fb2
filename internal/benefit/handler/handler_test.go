package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"pensionledger/internal/benefit/service"
	"pensionledger/internal/benefit/store"
	id "pensionledger/pkg/domain"
	"pensionledger/pkg/requestcontext"
)

const adminIdentity = id.Identity("administrator")

// HandlerSuite wires the handler onto a real service and in-memory store;
// tests exercise HTTP parsing and response mapping end to end.
type HandlerSuite struct {
	suite.Suite
	router    http.Handler
	retireeID id.RetireeID
}

func (s *HandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.New(store.NewInMemory(), adminIdentity, service.WithLogger(logger))

	r := chi.NewRouter()
	New(svc, logger).Register(r)
	s.router = r
	s.retireeID = id.NewRetireeID()
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) request(method, target string, body any) *http.Request {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// asAdmin injects the administrator identity the way the router's
// authentication middleware would.
func (s *HandlerSuite) asAdmin(req *http.Request) *http.Request {
	return req.WithContext(requestcontext.WithCallerID(req.Context(), adminIdentity))
}

func (s *HandlerSuite) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) register() {
	rec := s.serve(s.asAdmin(s.request(http.MethodPost, "/benefit/retirees", map[string]any{
		"retiree_id":           s.retireeID.String(),
		"years_of_service":     30,
		"final_average_salary": 50_000,
		"benefit_factor":       200,
	})))
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
}

func (s *HandlerSuite) recordPayment(amount uint64) uint64 {
	rec := s.serve(s.asAdmin(s.request(http.MethodPost,
		"/benefit/retirees/"+s.retireeID.String()+"/payments",
		map[string]any{"amount": amount})))
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Sequence uint64 `json:"sequence"`
	}
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Sequence
}

func (s *HandlerSuite) TestRegisterRetiree() {
	s.Run("returns the computed monthly benefit", func() {
		rec := s.serve(s.asAdmin(s.request(http.MethodPost, "/benefit/retirees", map[string]any{
			"retiree_id":           s.retireeID.String(),
			"years_of_service":     30,
			"final_average_salary": 50_000,
			"benefit_factor":       200,
		})))
		s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

		var resp struct {
			MonthlyBenefit uint64 `json:"monthly_benefit"`
		}
		s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
		s.Equal(uint64(30_000), resp.MonthlyBenefit)
	})

	s.Run("duplicate registration returns 409", func() {
		rec := s.serve(s.asAdmin(s.request(http.MethodPost, "/benefit/retirees", map[string]any{
			"retiree_id":           s.retireeID.String(),
			"years_of_service":     10,
			"final_average_salary": 40_000,
			"benefit_factor":       150,
		})))
		s.Equal(http.StatusConflict, rec.Code)

		var envelope map[string]string
		s.Require().NoError(json.NewDecoder(rec.Body).Decode(&envelope))
		s.Equal("already_registered", envelope["error"])
	})

	s.Run("zero input returns 400 with the domain code", func() {
		rec := s.serve(s.asAdmin(s.request(http.MethodPost, "/benefit/retirees", map[string]any{
			"retiree_id":           id.NewRetireeID().String(),
			"years_of_service":     0,
			"final_average_salary": 50_000,
			"benefit_factor":       200,
		})))
		s.Equal(http.StatusBadRequest, rec.Code)

		var envelope map[string]string
		s.Require().NoError(json.NewDecoder(rec.Body).Decode(&envelope))
		s.Equal("invalid_parameters", envelope["error"])
	})

	s.Run("non-UUID retiree id returns 400", func() {
		rec := s.serve(s.asAdmin(s.request(http.MethodPost, "/benefit/retirees", map[string]any{
			"retiree_id": "not-a-uuid",
		})))
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("unauthenticated caller returns 401", func() {
		rec := s.serve(s.request(http.MethodPost, "/benefit/retirees", map[string]any{
			"retiree_id":           id.NewRetireeID().String(),
			"years_of_service":     30,
			"final_average_salary": 50_000,
			"benefit_factor":       200,
		}))
		s.Equal(http.StatusUnauthorized, rec.Code)
	})
}

func (s *HandlerSuite) TestStatusAndPayments() {
	s.register()

	s.Run("payments are sequenced from zero", func() {
		s.Equal(uint64(0), s.recordPayment(30_000))
		s.Equal(uint64(1), s.recordPayment(30_000))
	})

	s.Run("payment lookup round-trips", func() {
		rec := s.serve(s.request(http.MethodGet,
			"/benefit/retirees/"+s.retireeID.String()+"/payments/1", nil))
		s.Require().Equal(http.StatusOK, rec.Code)

		var resp struct {
			RetireeID string `json:"retiree_id"`
			Sequence  uint64 `json:"sequence"`
			Amount    uint64 `json:"amount"`
		}
		s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
		s.Equal(s.retireeID.String(), resp.RetireeID)
		s.Equal(uint64(1), resp.Sequence)
		s.Equal(uint64(30_000), resp.Amount)
	})

	s.Run("count and total reflect the recorded payments", func() {
		rec := s.serve(s.request(http.MethodGet,
			"/benefit/retirees/"+s.retireeID.String()+"/payments/count", nil))
		s.Require().Equal(http.StatusOK, rec.Code)
		var countResp struct {
			Count uint64 `json:"count"`
		}
		s.Require().NoError(json.NewDecoder(rec.Body).Decode(&countResp))
		s.Equal(uint64(2), countResp.Count)

		rec = s.serve(s.request(http.MethodGet,
			"/benefit/retirees/"+s.retireeID.String()+"/payments/total", nil))
		s.Require().Equal(http.StatusOK, rec.Code)
		var totalResp struct {
			Total uint64 `json:"total"`
		}
		s.Require().NoError(json.NewDecoder(rec.Body).Decode(&totalResp))
		s.Equal(uint64(60_000), totalResp.Total)
	})

	s.Run("deactivation blocks further payments", func() {
		rec := s.serve(s.asAdmin(s.request(http.MethodPut,
			"/benefit/retirees/"+s.retireeID.String()+"/status",
			map[string]any{"active": false})))
		s.Equal(http.StatusNoContent, rec.Code)

		rec = s.serve(s.asAdmin(s.request(http.MethodPost,
			"/benefit/retirees/"+s.retireeID.String()+"/payments",
			map[string]any{"amount": 30_000})))
		s.Equal(http.StatusBadRequest, rec.Code)

		// count unchanged
		rec = s.serve(s.request(http.MethodGet,
			"/benefit/retirees/"+s.retireeID.String()+"/payments/count", nil))
		var countResp struct {
			Count uint64 `json:"count"`
		}
		s.Require().NoError(json.NewDecoder(rec.Body).Decode(&countResp))
		s.Equal(uint64(2), countResp.Count)
	})

	s.Run("missing active field returns 400", func() {
		rec := s.serve(s.asAdmin(s.request(http.MethodPut,
			"/benefit/retirees/"+s.retireeID.String()+"/status",
			map[string]any{})))
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *HandlerSuite) TestLookupEdges() {
	s.Run("unknown retiree returns 404", func() {
		rec := s.serve(s.request(http.MethodGet,
			"/benefit/retirees/"+id.NewRetireeID().String(), nil))
		s.Equal(http.StatusNotFound, rec.Code)
	})

	s.Run("unknown sequence returns 404", func() {
		s.register()
		rec := s.serve(s.request(http.MethodGet,
			"/benefit/retirees/"+s.retireeID.String()+"/payments/0", nil))
		s.Equal(http.StatusNotFound, rec.Code)
	})

	s.Run("unknown retiree counts zero payments", func() {
		rec := s.serve(s.request(http.MethodGet,
			"/benefit/retirees/"+id.NewRetireeID().String()+"/payments/count", nil))
		s.Require().Equal(http.StatusOK, rec.Code)
		var resp struct {
			Count uint64 `json:"count"`
		}
		s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
		s.Equal(uint64(0), resp.Count)
	})

	s.Run("retiree record marshals the id in UUID form", func() {
		rec := s.serve(s.request(http.MethodGet,
			"/benefit/retirees/"+s.retireeID.String(), nil))
		s.Require().Equal(http.StatusOK, rec.Code)
		var resp struct {
			RetireeID      string `json:"retiree_id"`
			MonthlyBenefit uint64 `json:"monthly_benefit"`
			Active         bool   `json:"active"`
		}
		s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
		s.Equal(s.retireeID.String(), resp.RetireeID)
		s.Equal(uint64(30_000), resp.MonthlyBenefit)
		s.True(resp.Active)
	})
}
