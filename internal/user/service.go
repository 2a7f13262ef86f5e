package user

import (
	"github.com/codecraftak/arcade-backend/internal/pkg/model"
	"github.com/codecraftak/arcade-backend/internal/pkg/reject"
	"gorm.io/gorm"
)

const searchLimit = 20

// UserService reads the local mirror of platform accounts. Rows arrive
// through the provisioning subscription; the engine never creates users on
// its own.
type UserService struct {
	Db *gorm.DB
}

func (s *UserService) FindById(id uint64) (*model.User, *reject.ProblemWithTrace) {
	var user model.User
	result := s.Db.
		Model(&model.User{}).
		Where("id = ?", id).
		First(&user)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, &reject.ProblemWithTrace{
				Problem: reject.NotFoundProblem(),
				Cause:   result.Error,
			}
		}
		return nil, &reject.ProblemWithTrace{
			Problem: reject.UnexpectedProblem(result.Error),
			Cause:   result.Error,
		}
	}

	return &user, nil
}

// Search matches usernames by prefix, for the invite recipient picker.
func (s *UserService) Search(usernamePrefix string) ([]model.User, *reject.ProblemWithTrace) {
	users := []model.User{}
	result := s.Db.
		Model(&model.User{}).
		Where("username LIKE ?", usernamePrefix+"%").
		Order("username").
		Limit(searchLimit).
		Find(&users)

	if result.Error != nil {
		return nil, &reject.ProblemWithTrace{
			Problem: reject.UnexpectedProblem(result.Error),
			Cause:   result.Error,
		}
	}

	return users, nil
}
