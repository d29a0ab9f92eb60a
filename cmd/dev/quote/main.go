package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"rental/internal/insurance"
	"rental/internal/pricing"
)

// Prints a checkout quote against the default catalog:
//
//	go run ./cmd/dev/quote -rate 100 -in 2024-08-10 -out 2024-08-15 -insurance
func main() {
	rate := flag.String("rate", "100", "price per night")
	in := flag.String("in", "", "check-in date (YYYY-MM-DD)")
	out := flag.String("out", "", "check-out date (YYYY-MM-DD)")
	withInsurance := flag.Bool("insurance", false, "price the eligible insurance plan")
	flag.Parse()

	price, err := decimal.NewFromString(*rate)
	if err != nil {
		fail("rate: %v", err)
	}
	checkIn, err := pricing.ParseDate(*in)
	if err != nil {
		fail("check-in: %v", err)
	}
	checkOut, err := pricing.ParseDate(*out)
	if err != nil {
		fail("check-out: %v", err)
	}

	q, err := pricing.NewQuote(price, checkIn, checkOut, insurance.DefaultCatalog(), *withInsurance)
	if err != nil {
		fail("quote: %v", err)
	}

	fmt.Printf("nights:       %d\n", q.Nights)
	fmt.Printf("reservation:  %s\n", q.ReservationCost.StringFixed(2))
	fmt.Printf("service fee:  %s\n", q.ServiceFee.StringFixed(2))
	fmt.Printf("insurance:    %s\n", q.InsuranceCost.StringFixed(2))
	fmt.Printf("total:        %s\n", q.TotalCost.StringFixed(2))
	if q.EligiblePlan != nil {
		fmt.Printf("eligible:     %s (%s%%)\n", q.EligiblePlan.ID, q.EligiblePlan.PricePercent)
	}
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}
