// safecall — обёртка «безопасного вызова» вокруг сетевых операций.
//
// Контракт: любая ошибка операции классифицируется в apierr.Error и
// возвращается веткой ошибки result.Result — наружу не выходит ни одна
// сырая ошибка транспорта или декодирования.
package safecall

import (
	"context"

	"github.com/worldproger/mango-go/pkg/apierr"
	"github.com/worldproger/mango-go/pkg/result"
)

// Call выполняет fn и приводит исход к result.Result.
func Call[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) result.Result[T] {
	value, err := fn(ctx)
	if err != nil {
		return result.Err[T](apierr.Classify(err))
	}

	return result.Ok(value)
}

// CallMap — вариант Call с пост-обработкой успешного значения.
// Ошибка transform классифицируется как Serialization, не пробрасывается.
func CallMap[T, R any](
	ctx context.Context,
	fn func(ctx context.Context) (T, error),
	transform func(T) (R, error),
) result.Result[R] {
	value, err := fn(ctx)
	if err != nil {
		return result.Err[R](apierr.Classify(err))
	}

	mapped, err := transform(value)
	if err != nil {
		return result.Err[R](&apierr.Error{
			Kind:    apierr.Serialization,
			Message: "transform response: " + err.Error(),
		})
	}

	return result.Ok(mapped)
}
