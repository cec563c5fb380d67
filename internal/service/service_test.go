package service

import (
	"testing"

	"github.com/user/movierate/internal/repository"
	"github.com/user/movierate/internal/testutil"
	"gorm.io/gorm"
)

func newTestServices(t *testing.T) (*Services, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	return NewServices(repository.NewRepositories(db)), db
}
