package user_test

import (
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	errors "github.com/frahmantamala/asset-management/internal"
	"github.com/frahmantamala/asset-management/internal/user"
)

// Mock repository for testing
type mockUserRepository struct {
	users  map[int64]*user.User
	nextID int64
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users:  make(map[int64]*user.User),
		nextID: 1,
	}
}

func (m *mockUserRepository) Create(u *user.User) error {
	u.ID = m.nextID
	m.nextID++
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepository) GetByID(id int64) (*user.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, errors.ErrUserNotFound
}

func (m *mockUserRepository) GetByUsername(username string) (*user.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, errors.ErrUserNotFound
}

func (m *mockUserRepository) GetAll() ([]*user.User, error) {
	out := make([]*user.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *mockUserRepository) Update(u *user.User) error {
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepository) Delete(id int64) error {
	if _, ok := m.users[id]; !ok {
		return errors.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *mockUserRepository) EmailExists(email string, excludeID int64) (bool, error) {
	for _, u := range m.users {
		if u.Email == email && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepository) UsernameExists(username string) (bool, error) {
	for _, u := range m.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

var _ = Describe("User Service", func() {
	var (
		repo    *mockUserRepository
		service *user.Service
	)

	newDTO := func(username, email string) user.CreateUserDTO {
		return user.CreateUserDTO{
			Username: username,
			Email:    email,
			Password: "correct-horse-battery",
		}
	}

	BeforeEach(func() {
		repo = newMockUserRepository()
		service = user.NewService(repo, bcrypt.MinCost, slog.Default())
	})

	Describe("CreateUser", func() {
		It("reports a taken username with the username conflict code", func() {
			_, err := service.CreateUser(newDTO("dana", "dana@example.com"))
			Expect(err).NotTo(HaveOccurred())

			_, err = service.CreateUser(newDTO("dana", "other@example.com"))
			appErr, ok := errors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(409))
			Expect(appErr.Code).To(Equal(errors.ErrCodeDuplicateUsername))
		})

		It("reports a taken email with the email conflict code", func() {
			_, err := service.CreateUser(newDTO("dana", "dana@example.com"))
			Expect(err).NotTo(HaveOccurred())

			_, err = service.CreateUser(newDTO("other", "dana@example.com"))
			appErr, ok := errors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(409))
			Expect(appErr.Code).To(Equal(errors.ErrCodeDuplicateEmail))
		})
	})

	Describe("DeleteUser", func() {
		It("deletes and reports not found on repeat", func() {
			u, err := service.CreateUser(newDTO("dana", "dana@example.com"))
			Expect(err).NotTo(HaveOccurred())

			Expect(service.DeleteUser(u.ID)).To(Succeed())
			Expect(service.DeleteUser(u.ID)).To(Equal(errors.ErrUserNotFound))
		})
	})
})
