package handlers

import (
	"net/http"

	"dispatch-admin/internal/domain"
	"dispatch-admin/internal/logx"
)

// CreateHandler serves the order-creation flow: selection, drafts,
// confirmation and submission.
type CreateHandler struct {
	usecase createUsecase
	refs    refsUsecase
	logger  logx.Logger
}

// NewCreateHandler creates a CreateHandler.
func NewCreateHandler(logger logx.Logger, uc createUsecase, refs refsUsecase) *CreateHandler {
	return &CreateHandler{usecase: uc, refs: refs, logger: logger}
}

type selectRequest struct {
	// A null id clears the axis.
	ID *string `json:"id"`
}

type draftRequest struct {
	ValorFinal       string `json:"valorFinal"`
	ValorDomicilio   string `json:"valorDomicilio"`
	DireccionDestino string `json:"direccionDestino"`
}

type refsResponse struct {
	Couriers  []domain.Courier  `json:"couriers"`
	Merchants []domain.Merchant `json:"merchants"`
}

// State handles GET /create/state.
func (h *CreateHandler) State(w http.ResponseWriter, r *http.Request) {
	writeJSON(h.logger, w, r, http.StatusOK, h.usecase.Machine().Snapshot())
}

// Refs handles GET /create/refs, loading reference data on first use.
func (h *CreateHandler) Refs(w http.ResponseWriter, r *http.Request) {
	if !h.refs.Loaded() {
		if err := h.refs.Load(r.Context()); err != nil {
			writeDomainError(h.logger, w, r, err, "could not load couriers and merchants")
			return
		}
	}
	writeJSON(h.logger, w, r, http.StatusOK, refsResponse{
		Couriers:  h.refs.Couriers(),
		Merchants: h.refs.Merchants(),
	})
}

// SelectCourier handles POST /create/courier.
func (h *CreateHandler) SelectCourier(w http.ResponseWriter, r *http.Request) {
	h.selectAxis(w, r, h.usecase.Machine().SelectCourier)
}

// SelectMerchant handles POST /create/merchant.
func (h *CreateHandler) SelectMerchant(w http.ResponseWriter, r *http.Request) {
	h.selectAxis(w, r, h.usecase.Machine().SelectMerchant)
}

func (h *CreateHandler) selectAxis(w http.ResponseWriter, r *http.Request, set func(string) error) {
	var req selectRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	id := ""
	if req.ID != nil {
		id = *req.ID
	}
	if err := set(id); err != nil {
		writeDomainError(h.logger, w, r, err, "selection is locked, clear it first")
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, h.usecase.Machine().Snapshot())
}

// Draft handles POST /create/draft, storing the raw form fields.
func (h *CreateHandler) Draft(w http.ResponseWriter, r *http.Request) {
	var req draftRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	h.usecase.Machine().SetDrafts(req.ValorFinal, req.ValorDomicilio, req.DireccionDestino)
	writeJSON(h.logger, w, r, http.StatusOK, h.usecase.Machine().Snapshot())
}

// Submit handles POST /create/submit.
func (h *CreateHandler) Submit(w http.ResponseWriter, r *http.Request) {
	order, err := h.usecase.Submit(r.Context())
	if err != nil {
		// The machine keeps the error message and the selections; the
		// snapshot lets the operator retry without re-selecting.
		snap := h.usecase.Machine().Snapshot()
		msg := snap.Error
		if msg == "" {
			msg = "could not assign the order"
		}
		writeDomainError(h.logger, w, r, err, msg)
		return
	}
	writeJSON(h.logger, w, r, http.StatusCreated, order)
}

// CloseModal handles POST /create/close, hiding the confirmation surface
// while keeping the selections.
func (h *CreateHandler) CloseModal(w http.ResponseWriter, r *http.Request) {
	h.usecase.Machine().CloseModal()
	writeJSON(h.logger, w, r, http.StatusOK, h.usecase.Machine().Snapshot())
}

// Reset handles POST /create/reset.
func (h *CreateHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.usecase.Machine().Reset()
	writeJSON(h.logger, w, r, http.StatusOK, h.usecase.Machine().Snapshot())
}
