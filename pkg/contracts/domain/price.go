package domain

import (
	"fmt"
	"strconv"
	"time"
)

// DateLayout is the calendar-date wire format used by the price backend.
const DateLayout = "2006-01-02"

// FilterAll is the sentinel meaning "no constraint" for a filter dimension.
const FilterAll = "all"

// PriceRecord is one price observation for a product at a market on a date,
// exactly as returned by the upstream price-listing endpoint. Field names
// match the backend serializer; records are read-only inputs.
type PriceRecord struct {
	PriceID     int    `json:"PriceID"`
	ProductName string `json:"ProductName"`
	MarketName  string `json:"MarketName"`
	Price       string `json:"Price"`
	PriceDate   string `json:"PriceDate"`
	Product     int    `json:"Product"`
	Market      int    `json:"Market"`
}

// ParsePrice converts the decimal price string to a float64.
// The wire format is text; this is the single conversion point.
func (r PriceRecord) ParsePrice() (float64, error) {
	v, err := strconv.ParseFloat(r.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("parse price %q for record %d: %w", r.Price, r.PriceID, err)
	}
	return v, nil
}

// ParseDate converts the calendar-date string to a UTC time.
func (r PriceRecord) ParseDate() (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, r.PriceDate, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q for record %d: %w", r.PriceDate, r.PriceID, err)
	}
	return d, nil
}

// ReportFilters defines the inclusion predicate applied before aggregation.
// StartDate > EndDate is not an error; it yields empty views.
type ReportFilters struct {
	StartDate string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" validate:"required,datetime=2006-01-02"`
	Market    string `json:"market" validate:"required"`
	Product   string `json:"product" validate:"required"`
	Category  string `json:"category" validate:"required"`
}

// Window returns the inclusive date range as UTC times.
func (f ReportFilters) Window() (start, end time.Time, err error) {
	start, err = time.ParseInLocation(DateLayout, f.StartDate, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse start date %q: %w", f.StartDate, err)
	}
	end, err = time.ParseInLocation(DateLayout, f.EndDate, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse end date %q: %w", f.EndDate, err)
	}
	return start, end, nil
}

// MatchesMarket reports whether the record passes the market constraint.
func (f ReportFilters) MatchesMarket(r PriceRecord) bool {
	return f.Market == FilterAll || f.Market == r.MarketName
}
