package models

import "errors"

// ErrInvalidCategory indicates a category outside the four known values.
var ErrInvalidCategory = errors.New("invalid category")

// ErrInvalidDate indicates a date not in yyyy-MM-dd form.
var ErrInvalidDate = errors.New("invalid date, expected yyyy-MM-dd")

// ErrNegativeHours indicates an hours value below zero.
var ErrNegativeHours = errors.New("hours must not be negative")

// ErrMissingField indicates a required field was empty.
var ErrMissingField = errors.New("missing required field")

// ErrDuplicateCard indicates another laborer already claims the same
// (cardNo, category) pair.
var ErrDuplicateCard = errors.New("card number already registered in this category")
