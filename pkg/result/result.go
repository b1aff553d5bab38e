// result реализует двухвариантный результат сетевой операции:
// успех с полезной нагрузкой либо классифицированная ошибка apierr.Error.
//
// Инварианты:
//   - значение конструируется только через Ok/Err — промежуточных состояний нет;
//   - Err с nil-ошибкой недопустим: такой вызов приводится к Unknown,
//     чтобы ветка ошибки всегда несла конкретную причину.
package result

import "github.com/worldproger/mango-go/pkg/apierr"

// Unit — пустая полезная нагрузка операций без возвращаемого значения.
type Unit struct{}

// Result — исход операции: ровно одна из веток заполнена.
type Result[T any] struct {
	value T
	err   *apierr.Error
}

// Ok создаёт успешный результат.
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Err создаёт результат-ошибку.
func Err[T any](err *apierr.Error) Result[T] {
	if err == nil {
		err = &apierr.Error{Kind: apierr.Unknown, Message: "nil error"}
	}

	return Result[T]{err: err}
}

// IsOk сообщает, что результат успешный.
func (r Result[T]) IsOk() bool { return r.err == nil }

// IsErr сообщает, что результат содержит ошибку.
func (r Result[T]) IsErr() bool { return r.err != nil }

// Value возвращает полезную нагрузку и признак успеха.
func (r Result[T]) Value() (T, bool) {
	return r.value, r.err == nil
}

// ValueOr возвращает полезную нагрузку либо fallback при ошибке.
func (r Result[T]) ValueOr(fallback T) T {
	if r.err != nil {
		return fallback
	}

	return r.value
}

// MustValue возвращает полезную нагрузку; паника на ветке ошибки.
// Использовать только там, где успех гарантирован логикой вызова (тесты).
func (r Result[T]) MustValue() T {
	if r.err != nil {
		panic("result: MustValue on error: " + r.err.Error())
	}

	return r.value
}

// ErrOrNil возвращает ошибку или nil для успешного результата.
func (r Result[T]) ErrOrNil() *apierr.Error { return r.err }

// Fold исчерпывающе разбирает обе ветки.
func (r Result[T]) Fold(onSuccess func(T), onError func(*apierr.Error)) {
	if r.err != nil {
		onError(r.err)
		return
	}

	onSuccess(r.value)
}

// OnSuccess вызывает action на ветке успеха; возвращает исходный результат.
func (r Result[T]) OnSuccess(action func(T)) Result[T] {
	if r.err == nil {
		action(r.value)
	}

	return r
}

// OnError вызывает action на ветке ошибки; возвращает исходный результат.
func (r Result[T]) OnError(action func(*apierr.Error)) Result[T] {
	if r.err != nil {
		action(r.err)
	}

	return r
}

// Map преобразует полезную нагрузку успешного результата.
// Ошибка проносится без изменений.
func Map[T, R any](r Result[T], transform func(T) R) Result[R] {
	if r.err != nil {
		return Err[R](r.err)
	}

	return Ok(transform(r.value))
}
