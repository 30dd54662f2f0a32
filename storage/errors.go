package storage

import "fmt"

type ErrNotExist struct {
	path string
}

func (e ErrNotExist) Error() string {
	return fmt.Sprintf("not found: %s", e.path)
}
