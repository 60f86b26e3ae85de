package render

import "github.com/smolder-dev/smolder/internal/usecase"

type Renderer[T any] interface {
	Render(result T) error
}

var _ Renderer[*usecase.InitProjectResult] = (*InitRenderer)(nil)
