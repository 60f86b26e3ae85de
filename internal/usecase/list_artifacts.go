package usecase

import (
	"context"

	"github.com/smolder-dev/smolder/internal/domain/models"
)

// ListArtifacts lists the deployable contracts of the build output
type ListArtifacts struct {
	loader ArtifactLoader
}

// NewListArtifacts creates a new ListArtifacts use case
func NewListArtifacts(loader ArtifactLoader) *ListArtifacts {
	return &ListArtifacts{loader: loader}
}

// Run lists artifacts sorted by name
func (uc *ListArtifacts) Run(ctx context.Context) ([]models.ArtifactInfo, error) {
	return uc.loader.List()
}

// ShowArtifact loads one artifact with its constructor
type ShowArtifact struct {
	loader ArtifactLoader
}

// NewShowArtifact creates a new ShowArtifact use case
func NewShowArtifact(loader ArtifactLoader) *ShowArtifact {
	return &ShowArtifact{loader: loader}
}

// Run returns the artifact details
func (uc *ShowArtifact) Run(ctx context.Context, name string) (*models.ArtifactDetails, error) {
	return uc.loader.Details(name)
}
