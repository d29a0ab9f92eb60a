package booking

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"rental/internal/api"
	"rental/internal/events"
	"rental/internal/insurance"
	"rental/internal/pricing"
)

type Handlers struct {
	Bookings *Manager
	Now      func() time.Time
	Log      *logrus.Entry
	// AppEnv "prod" hides internal error detail from responses.
	AppEnv string
}

func (h Handlers) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

type bookingResponse struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"userId"`
	PropertyID         string    `json:"propertyId"`
	InsurancePlanID    string    `json:"insurancePlanId,omitempty"`
	CheckIn            string    `json:"checkIn"`
	CheckOut           string    `json:"checkOut"`
	Nights             int       `json:"nights"`
	Guests             int       `json:"guests"`
	ReservationCost    string    `json:"reservationCost"`
	ServiceFee         string    `json:"serviceFee"`
	InsuranceCost      string    `json:"insuranceCost"`
	TotalCost          string    `json:"totalCost"`
	Status             Status    `json:"status"`
	CancellationReason string    `json:"cancellationReason,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

func toResponse(b Booking) bookingResponse {
	return bookingResponse{
		ID:                 b.ID,
		UserID:             b.UserID,
		PropertyID:         b.PropertyID,
		InsurancePlanID:    b.InsurancePlanID,
		CheckIn:            b.CheckIn.Format(pricing.DateLayout),
		CheckOut:           b.CheckOut.Format(pricing.DateLayout),
		Nights:             b.Nights(),
		Guests:             b.Guests,
		ReservationCost:    b.Costs.Reservation().StringFixed(2),
		ServiceFee:         b.Costs.ServiceFee().StringFixed(2),
		InsuranceCost:      b.Costs.Insurance().StringFixed(2),
		TotalCost:          b.Costs.Total().StringFixed(2),
		Status:             b.Status,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

func toResponses(list []Booking) []bookingResponse {
	out := make([]bookingResponse, 0, len(list))
	for _, b := range list {
		out = append(out, toResponse(b))
	}
	return out
}

type tripResponse struct {
	bookingResponse
	Completed                   bool            `json:"completed"`
	Ongoing                     bool            `json:"ongoing"`
	CanAddInsurance             bool            `json:"canAddInsurance"`
	DaysRemainingToAddInsurance int             `json:"daysRemainingToAddInsurance"`
	Plan                        *insurance.Plan `json:"insurancePlan,omitempty"`
	EligiblePlan                *insurance.Plan `json:"eligiblePlan,omitempty"`
}

type refundResponse struct {
	BookingID string `json:"bookingId"`
	Amount    string `json:"amount"`
}

type quoteResponse struct {
	Nights          int             `json:"nights"`
	PricePerNight   string          `json:"pricePerNight"`
	ReservationCost string          `json:"reservationCost"`
	ServiceFee      string          `json:"serviceFee"`
	InsuranceCost   string          `json:"insuranceCost"`
	TotalCost       string          `json:"totalCost"`
	InsurancePlanID string          `json:"insurancePlanId,omitempty"`
	EligiblePlan    *insurance.Plan `json:"eligiblePlan,omitempty"`
}

func (h Handlers) Quote(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	propertyID := strings.TrimSpace(q.Get("propertyId"))
	if propertyID == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing propertyId")
		return
	}
	checkIn, err1 := pricing.ParseDate(q.Get("checkIn"))
	checkOut, err2 := pricing.ParseDate(q.Get("checkOut"))
	if err1 != nil || err2 != nil {
		api.WriteError(w, http.StatusBadRequest, "INVALID_STAY_PARAMETERS", "checkIn and checkOut must be YYYY-MM-DD")
		return
	}
	if g := q.Get("guests"); g != "" {
		n, err := strconv.Atoi(g)
		if err != nil || n < 1 {
			api.WriteError(w, http.StatusBadRequest, "INVALID_STAY_PARAMETERS", "guests must be a positive integer")
			return
		}
	}
	withInsurance, _ := strconv.ParseBool(q.Get("insurance"))

	quote, err := h.Bookings.Quote(r.Context(), propertyID, checkIn, checkOut, withInsurance)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, quoteResponse{
		Nights:          quote.Nights,
		PricePerNight:   quote.PricePerNight.StringFixed(2),
		ReservationCost: quote.ReservationCost.StringFixed(2),
		ServiceFee:      quote.ServiceFee.StringFixed(2),
		InsuranceCost:   quote.InsuranceCost.StringFixed(2),
		TotalCost:       quote.TotalCost.StringFixed(2),
		InsurancePlanID: quote.InsurancePlanID,
		EligiblePlan:    quote.EligiblePlan,
	})
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	f, err := ParseFilter(r.URL.Query().Get("filter"))
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "filter must be all, completed or cancelled")
		return
	}
	list, err := h.Bookings.Trips(r.Context(), api.RequesterFromContext(r.Context()), f, h.now())
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": toResponses(list)})
}

type CreateRequest struct {
	PropertyID      string `json:"propertyId" validate:"required"`
	CheckIn         string `json:"checkIn" validate:"required,datetime=2006-01-02"`
	CheckOut        string `json:"checkOut" validate:"required,datetime=2006-01-02"`
	Guests          int    `json:"guests" validate:"min=1"`
	InsurancePlanID string `json:"insurancePlanId,omitempty"`
}

func (h Handlers) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	if err := validate.Struct(req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "INVALID_STAY_PARAMETERS", describeValidation(err))
		return
	}
	checkIn, _ := pricing.ParseDate(req.CheckIn)
	checkOut, _ := pricing.ParseDate(req.CheckOut)

	b, err := h.Bookings.CreateBooking(r.Context(), api.RequesterFromContext(r.Context()), CreateInput{
		PropertyID:      req.PropertyID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Guests:          req.Guests,
		InsurancePlanID: strings.TrimSpace(req.InsurancePlanID),
	}, h.now())
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, toResponse(b))
}

func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.Bookings.Trip(r.Context(), api.RequesterFromContext(r.Context()), chi.URLParam(r, "id"), h.now())
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, tripResponse{
		bookingResponse:             toResponse(t.Booking),
		Completed:                   t.Completed,
		Ongoing:                     t.Ongoing,
		CanAddInsurance:             t.CanAddInsurance,
		DaysRemainingToAddInsurance: t.DaysRemainingToAddInsurance,
		Plan:                        t.Plan,
		EligiblePlan:                t.EligiblePlan,
	})
}

func (h Handlers) Events(w http.ResponseWriter, r *http.Request) {
	list, err := h.Bookings.Events(r.Context(), api.RequesterFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	if list == nil {
		list = []events.Event{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": list})
}

type CancelRequest struct {
	Reason string `json:"reason"`
}

func (h Handlers) Cancel(w http.ResponseWriter, r *http.Request) {
	h.cancel(w, r, ByGuest)
}

func (h Handlers) HostCancel(w http.ResponseWriter, r *http.Request) {
	h.cancel(w, r, ByHost)
}

func (h Handlers) cancel(w http.ResponseWriter, r *http.Request, by Canceller) {
	var req CancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	h.writeCancel(w, r, by, req.Reason)
}

func (h Handlers) writeCancel(w http.ResponseWriter, r *http.Request, by Canceller, reason string) {
	b, refund, err := h.Bookings.CancelBooking(r.Context(), api.RequesterFromContext(r.Context()), chi.URLParam(r, "id"), by, reason, h.now())
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{
		"booking": toResponse(b),
		"refund":  refundResponse{BookingID: refund.BookingID, Amount: refund.Amount.StringFixed(2)},
	})
}

type AddInsuranceRequest struct {
	InsurancePlanID string `json:"insurancePlanId" validate:"required"`
}

func (h Handlers) AddInsurance(w http.ResponseWriter, r *http.Request) {
	var req AddInsuranceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	if err := validate.Struct(req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", describeValidation(err))
		return
	}
	h.writeAddInsurance(w, r, req.InsurancePlanID)
}

func (h Handlers) writeAddInsurance(w http.ResponseWriter, r *http.Request, planID string) {
	b, err := h.Bookings.AddInsurance(r.Context(), api.RequesterFromContext(r.Context()), chi.URLParam(r, "id"), strings.TrimSpace(planID), h.now())
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, toResponse(b))
}

// PatchRequest is the partial update the booking store accepts: either a
// cancellation (status + cancellationReason) or an insurance attachment.
type PatchRequest struct {
	Status             string `json:"status,omitempty"`
	CancellationReason string `json:"cancellationReason,omitempty"`
	InsurancePlanID    string `json:"insurancePlanId,omitempty"`
}

func (h Handlers) Patch(w http.ResponseWriter, r *http.Request) {
	var req PatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}

	switch {
	case req.Status != "" && req.InsurancePlanID != "":
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "status and insurancePlanId cannot be changed together")
	case req.Status != "":
		next, err := ParseStatus(req.Status)
		if err != nil || next == StatusConfirmed {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "status must be cancelled-by-guest or cancelled-by-host")
			return
		}
		by := ByGuest
		if next == StatusCancelledByHost {
			by = ByHost
		}
		h.writeCancel(w, r, by, req.CancellationReason)
	case req.InsurancePlanID != "":
		h.writeAddInsurance(w, r, req.InsurancePlanID)
	default:
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "nothing to update")
	}
}

func (h Handlers) PropertyBookings(w http.ResponseWriter, r *http.Request) {
	list, err := h.Bookings.PropertyBookings(r.Context(), api.RequesterFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": toResponses(list)})
}

type errorMapping struct {
	target error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{ErrInvalidStayParameters, http.StatusBadRequest, "INVALID_STAY_PARAMETERS"},
	{ErrInvalidDateRange, http.StatusBadRequest, "INVALID_DATE_RANGE"},
	{ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHENTICATED"},
	{ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
	{ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
	{ErrAlreadyCancelled, http.StatusConflict, "ALREADY_CANCELLED"},
	{ErrReasonRequired, http.StatusBadRequest, "REASON_REQUIRED"},
	{ErrTripCompleted, http.StatusConflict, "TRIP_COMPLETED"},
	{ErrInsuranceWindowClosed, http.StatusConflict, "INSURANCE_WINDOW_CLOSED"},
	{ErrPlanNotEligible, http.StatusUnprocessableEntity, "PLAN_NOT_ELIGIBLE"},
}

// ErrorCode maps a lifecycle error to its HTTP status and stable code.
// Unknown errors are internal.
func ErrorCode(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, "INTERNAL"
}

func (h Handlers) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	status, code := ErrorCode(err)
	if status != http.StatusInternalServerError {
		api.WriteError(w, status, code, err.Error())
		return
	}
	if h.Log != nil {
		h.Log.WithError(err).WithField("path", r.URL.Path).Error("booking request failed")
	}
	msg := "internal error"
	if h.AppEnv != "prod" {
		msg = fmt.Sprintf("internal error: %v", err)
	}
	api.WriteError(w, status, code, msg)
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
