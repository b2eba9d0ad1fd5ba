package errorx

import "fmt"

// Wrap annotates err with the operation that produced it. It keeps the error
// chain intact so errors.Is/As and the code helpers keep working.
func Wrap(err error, op string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}
