package record

import "errors"

var ErrRecordNotFound = errors.New("visit record not found")
