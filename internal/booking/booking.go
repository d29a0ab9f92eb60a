package booking

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"rental/internal/insurance"
	"rental/internal/pricing"
	"rental/internal/property"
)

var ErrInvalidDateRange = pricing.ErrInvalidDateRange

var validate = validator.New()

type Booking struct {
	ID              string
	UserID          string
	PropertyID      string
	InsurancePlanID string

	CheckIn  time.Time
	CheckOut time.Time
	Guests   int

	Costs CostBreakdown

	Status             Status
	CancellationReason string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (b Booking) Nights() int {
	return pricing.Nights(b.CheckIn, b.CheckOut)
}

type StayParams struct {
	CheckIn  time.Time `validate:"required"`
	CheckOut time.Time `validate:"required"`
	Guests   int       `validate:"min=1"`
}

var stayFieldNames = map[string]string{
	"CheckIn":  "checkIn",
	"CheckOut": "checkOut",
	"Guests":   "guests",
}

func (s StayParams) validate(today time.Time) *InputError {
	inputErr := newInputError()

	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			inputErr.addError("stay", err.Error())
			return inputErr
		}
		for _, fe := range verrs {
			field := stayFieldNames[fe.Field()]
			switch fe.Tag() {
			case "required":
				inputErr.addError(field, "is required")
			case "min":
				inputErr.addError(field, "must be at least "+fe.Param())
			default:
				inputErr.addError(field, "is invalid")
			}
		}
		return inputErr
	}

	if pricing.StartOfDay(s.CheckIn).Before(pricing.StartOfDay(today)) {
		inputErr.addError("checkIn", "must not be in the past")
	}
	if !pricing.StartOfDay(s.CheckIn).Before(pricing.StartOfDay(s.CheckOut)) {
		inputErr.addError("checkOut", "must be after checkIn")
		inputErr.cause = ErrInvalidDateRange
	}

	if inputErr.fieldsCount() > 0 {
		return inputErr
	}
	return nil
}

// NewBooking prices a stay and returns a confirmed booking owned by requester.
// plan is the plan the guest selected at checkout; nil books without insurance.
func NewBooking(p property.Property, stay StayParams, plan *insurance.Plan, catalog insurance.Catalog, requester string, now time.Time) (Booking, error) {
	if requester == "" {
		return Booking{}, ErrUnauthenticated
	}
	if inputErr := stay.validate(now); inputErr != nil {
		return Booking{}, inputErr
	}

	checkIn := pricing.StartOfDay(stay.CheckIn)
	checkOut := pricing.StartOfDay(stay.CheckOut)

	reservation, err := pricing.ReservationCost(p.PricePerNight, checkIn, checkOut)
	if err != nil {
		inputErr := newInputError()
		inputErr.addError("checkOut", "must be after checkIn")
		inputErr.cause = err
		return Booking{}, inputErr
	}

	var planID string
	premium := decimal.Zero
	if plan != nil {
		eligible, cost, ok := pricing.EligiblePlan(catalog, reservation)
		if !ok || eligible.ID != plan.ID {
			return Booking{}, ErrPlanNotEligible
		}
		planID = eligible.ID
		premium = cost
	}

	costs, err := NewCostBreakdown(reservation, pricing.ServiceFee(reservation), premium, planID)
	if err != nil {
		return Booking{}, err
	}

	return Booking{
		ID:              uuid.NewString(),
		UserID:          requester,
		PropertyID:      p.ID,
		InsurancePlanID: planID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Guests:          stay.Guests,
		Costs:           costs,
		Status:          StatusConfirmed,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}
