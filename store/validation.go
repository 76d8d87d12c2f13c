package store

// RequireNotEmpty checks that a string field is set.
func RequireNotEmpty(field, errMsg string) *CommandError {
	if field == "" {
		return NewInvalidArgument(errMsg)
	}
	return nil
}

// RequirePositive checks that a value is greater than zero.
func RequirePositive(value int32, errMsg string) *CommandError {
	if value <= 0 {
		return NewInvalidArgument(errMsg)
	}
	return nil
}

// RequireNonNegative checks that a value is zero or greater.
func RequireNonNegative(value int64, errMsg string) *CommandError {
	if value < 0 {
		return NewInvalidArgument(errMsg)
	}
	return nil
}

// RequireItems checks that a slice has at least one element.
func RequireItems[T any](items []T, errMsg string) *CommandError {
	if len(items) == 0 {
		return NewFailedPrecondition(errMsg)
	}
	return nil
}

// RequireOneOf checks that value is one of the allowed values.
func RequireOneOf(value string, allowed []string, errMsg string) *CommandError {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return NewInvalidArgument(errMsg)
}

// FirstError returns the first non-nil rejection, or nil.
func FirstError(errs ...*CommandError) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
