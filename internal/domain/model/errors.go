package model

import (
	"errors"
	"fmt"
)

// エラーの種類（境界でHTTPステータスに変換する）
type ErrorKind string

const (
	KindNotFound              ErrorKind = "NOT_FOUND"
	KindInsufficientStock     ErrorKind = "INSUFFICIENT_STOCK"
	KindCouponNotYetValid     ErrorKind = "COUPON_NOT_YET_VALID"
	KindCouponExpired         ErrorKind = "COUPON_EXPIRED"
	KindMinimumPurchaseNotMet ErrorKind = "MINIMUM_PURCHASE_NOT_MET"
	KindInvalidStatus         ErrorKind = "INVALID_STATUS"
	KindValidationFailed      ErrorKind = "VALIDATION_FAILED"
	KindForbidden             ErrorKind = "FORBIDDEN"
	KindInternal              ErrorKind = "INTERNAL"
)

// DomainError は注文処理で返す型付きエラー。
type DomainError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// 同じKindならerrors.Isで一致させる
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// 判定用のセンチネル
var (
	ErrNotFound              = &DomainError{Kind: KindNotFound, Message: "not found"}
	ErrInsufficientStock     = &DomainError{Kind: KindInsufficientStock, Message: "insufficient stock"}
	ErrCouponNotYetValid     = &DomainError{Kind: KindCouponNotYetValid, Message: "coupon not yet valid"}
	ErrCouponExpired         = &DomainError{Kind: KindCouponExpired, Message: "coupon expired"}
	ErrMinimumPurchaseNotMet = &DomainError{Kind: KindMinimumPurchaseNotMet, Message: "minimum purchase not met"}
	ErrInvalidStatus         = &DomainError{Kind: KindInvalidStatus, Message: "invalid status"}
	ErrValidationFailed      = &DomainError{Kind: KindValidationFailed, Message: "validation failed"}
	ErrForbidden             = &DomainError{Kind: KindForbidden, Message: "forbidden"}
	ErrInternal              = &DomainError{Kind: KindInternal, Message: "internal error"}
)

func NewError(kind ErrorKind, message string) error {
	return &DomainError{Kind: kind, Message: message}
}

func WrapError(kind ErrorKind, message string, err error) error {
	return &DomainError{Kind: kind, Message: message, Err: err}
}

func NotFound(what string) error {
	return &DomainError{Kind: KindNotFound, Message: what + " not found"}
}

func Invalid(message string) error {
	return &DomainError{Kind: KindValidationFailed, Message: message}
}

// AsDomainError はerrからDomainErrorを取り出す。
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	ok := errors.As(err, &de)
	return de, ok
}

// KindOf はDomainError以外をINTERNAL扱いにする
func KindOf(err error) ErrorKind {
	if de, ok := AsDomainError(err); ok {
		return de.Kind
	}
	return KindInternal
}
