package models

import (
	"errors"
	"fmt"
)

var (
	ErrDataFetch           = errors.New("data fetch failed")
	ErrGateway             = errors.New("gateway failed")
	ErrInsufficientData    = errors.New("insufficient data")
	ErrUnsupportedStrategy = errors.New("unsupported strategy")
)

// GatewayError — ошибка выставления ордера, котировки или баланса.
// Status == 0 означает сетевую ошибку (ответа не было).
type GatewayError struct {
	Op      string
	Status  int
	Name    string // error.name из ответа Upbit
	Message string
	Err     error
}

func (e *GatewayError) Error() string {
	switch {
	case e.Status != 0 && e.Name != "":
		return fmt.Sprintf("%s: http %d: %s: %s", e.Op, e.Status, e.Name, e.Message)
	case e.Status != 0:
		return fmt.Sprintf("%s: http %d: %s", e.Op, e.Status, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op + ": " + e.Message
}

func (e *GatewayError) Unwrap() error        { return e.Err }
func (e *GatewayError) Is(target error) bool { return target == ErrGateway }

// DataFetchError — недоступные или битые рыночные данные.
type DataFetchError struct {
	Op     string
	Market string
	Err    error
}

func (e *DataFetchError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Market, e.Err)
}

func (e *DataFetchError) Unwrap() error        { return e.Err }
func (e *DataFetchError) Is(target error) bool { return target == ErrDataFetch }

// InsufficientData — короткая серия для индикатора.
func InsufficientData(indicator string, need, got int) error {
	return fmt.Errorf("%w: %s needs %d values, got %d", ErrInsufficientData, indicator, need, got)
}
