package handlers

import (
	"net/mail"
	"strings"
)

type ValidationError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

func validateProduct(p ProductRequest) []ValidationError {
	errs := []ValidationError{}
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, ValidationError{Field: "Name", Description: "Name is required"})
	}
	if p.Quantity < 0 {
		errs = append(errs, ValidationError{Field: "Quantity", Description: "Quantity cannot be negative"})
	}
	if p.Threshold != nil && *p.Threshold < 0 {
		errs = append(errs, ValidationError{Field: "Threshold", Description: "Threshold cannot be negative"})
	}
	if p.Unit.ID == 0 && strings.TrimSpace(p.Unit.Name) == "" {
		errs = append(errs, ValidationError{Field: "Unit", Description: "Unit id or name is required"})
	}
	return errs
}

func validateMeal(m MealRequest) []ValidationError {
	errs := []ValidationError{}
	if strings.TrimSpace(m.Name) == "" {
		errs = append(errs, ValidationError{Field: "Name", Description: "Name is required"})
	}
	return errs
}

func validateAllergen(a AllergenRequest) []ValidationError {
	errs := []ValidationError{}
	if strings.TrimSpace(a.Name) == "" {
		errs = append(errs, ValidationError{Field: "Name", Description: "Name is required"})
	}
	return errs
}

func validateSupplier(s SupplierRequest) []ValidationError {
	errs := []ValidationError{}
	if strings.TrimSpace(s.Name) == "" {
		errs = append(errs, ValidationError{Field: "Name", Description: "Name is required"})
	}
	if s.ContactEmail != "" {
		if _, err := mail.ParseAddress(s.ContactEmail); err != nil {
			errs = append(errs, ValidationError{Field: "ContactEmail", Description: "ContactEmail is not a valid address"})
		}
	}
	return errs
}
