package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Lukhanyo05/cooltech-credentials/internal/model"
	"github.com/Lukhanyo05/cooltech-credentials/internal/repository"
)

// ── 内存存储 ──
// 各 mock repo 共享同一份状态，关系表以 (userID, targetID) 为键

type link struct {
	userID   string
	targetID string
}

type mockStore struct {
	users     map[string]*model.User
	divisions map[string]*model.Division
	ous       map[string]*model.OrganizationalUnit
	creds     map[string]*model.Credential
	userDivs  map[link]bool
	userOUs   map[link]bool
	seq       int
	clock     time.Time
}

func newMockStore() *mockStore {
	return &mockStore{
		users:     make(map[string]*model.User),
		divisions: make(map[string]*model.Division),
		ous:       make(map[string]*model.OrganizationalUnit),
		creds:     make(map[string]*model.Credential),
		userDivs:  make(map[link]bool),
		userOUs:   make(map[link]bool),
		clock:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (s *mockStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func (s *mockStore) tick() time.Time {
	s.clock = s.clock.Add(time.Minute)
	return s.clock
}

func (s *mockStore) repository() *repository.Repository {
	return &repository.Repository{
		User:               &mockUserRepo{s},
		Division:           &mockDivisionRepo{s},
		OrganizationalUnit: &mockOURepo{s},
		Credential:         &mockCredentialRepo{s},
		Membership:         &mockMembershipRepo{s},
	}
}

// ── 测试数据辅助 ──

func (s *mockStore) addOU(name string) *model.OrganizationalUnit {
	ou := &model.OrganizationalUnit{OUID: s.nextID("ou"), Name: name, Description: name + " unit"}
	s.ous[ou.OUID] = ou
	return ou
}

func (s *mockStore) addDivision(name, ouID string) *model.Division {
	d := &model.Division{DivisionID: s.nextID("div"), Name: name, Description: name + " team", OUID: ouID}
	s.divisions[d.DivisionID] = d
	return d
}

func (s *mockStore) addUser(username string, role model.Role, divisionIDs ...string) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	u := &model.User{
		UserID:       s.nextID("user"),
		Name:         "User " + username,
		Username:     username,
		Email:        username + "@cooltech.io",
		PasswordHash: string(hash),
		Role:         role,
	}
	u.CreatedAt = s.tick()
	s.users[u.UserID] = u
	for _, id := range divisionIDs {
		s.userDivs[link{u.UserID, id}] = true
	}
	return u
}

func (s *mockStore) addCredential(title, divisionID, createdBy, password string) *model.Credential {
	c := &model.Credential{
		CredentialID: s.nextID("cred"),
		Title:        title,
		Website:      "https://" + title + ".example",
		Username:     "svc-" + title,
		Password:     password,
		DivisionID:   divisionID,
		CreatedBy:    createdBy,
	}
	c.CreatedAt = s.tick()
	c.UpdatedAt = c.CreatedAt
	s.creds[c.CredentialID] = c
	return c
}

func (s *mockStore) countLinks(m map[link]bool, userID, targetID string) int {
	n := 0
	for l := range m {
		if (userID == "" || l.userID == userID) && (targetID == "" || l.targetID == targetID) {
			n++
		}
	}
	return n
}

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
}

// ── Mock UserRepository ──

type mockUserRepo struct{ s *mockStore }

func (m *mockUserRepo) CreateWithMemberships(_ context.Context, user *model.User, divisionIDs, ouIDs []string) error {
	for _, u := range m.s.users {
		if u.Email == user.Email || u.Username == user.Username {
			return uniqueViolation()
		}
	}
	if user.UserID == "" {
		user.UserID = m.s.nextID("user")
	}
	user.CreatedAt = m.s.tick()
	cp := *user
	m.s.users[user.UserID] = &cp
	for _, id := range divisionIDs {
		m.s.userDivs[link{user.UserID, id}] = true
	}
	for _, id := range ouIDs {
		m.s.userOUs[link{user.UserID, id}] = true
	}
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetWithMemberships(ctx context.Context, id string) (*model.User, error) {
	u, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	m.attach(u)
	return u, nil
}

func (m *mockUserRepo) attach(u *model.User) {
	u.Divisions = nil
	u.OrganizationalUnits = nil
	for l := range m.s.userDivs {
		if l.userID == u.UserID {
			d := *m.s.divisions[l.targetID]
			if ou, ok := m.s.ous[d.OUID]; ok {
				ouCopy := *ou
				d.OrganizationalUnit = &ouCopy
			}
			u.Divisions = append(u.Divisions, d)
		}
	}
	for l := range m.s.userOUs {
		if l.userID == u.UserID {
			u.OrganizationalUnits = append(u.OrganizationalUnits, *m.s.ous[l.targetID])
		}
	}
	sort.Slice(u.Divisions, func(i, j int) bool { return u.Divisions[i].Name < u.Divisions[j].Name })
	sort.Slice(u.OrganizationalUnits, func(i, j int) bool {
		return u.OrganizationalUnits[i].Name < u.OrganizationalUnits[j].Name
	})
}

func (m *mockUserRepo) ListWithMemberships(_ context.Context) ([]model.User, error) {
	result := make([]model.User, 0, len(m.s.users))
	for _, u := range m.s.users {
		cp := *u
		m.attach(&cp)
		result = append(result, cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (m *mockUserRepo) ExistsByEmailOrUsername(_ context.Context, email, username string) (bool, error) {
	for _, u := range m.s.users {
		if u.Email == email || u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) UpdateRole(_ context.Context, id string, role model.Role) error {
	u, ok := m.s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Role = role
	return nil
}

// ── Mock DivisionRepository ──

type mockDivisionRepo struct{ s *mockStore }

func (m *mockDivisionRepo) Create(_ context.Context, d *model.Division) error {
	if d.DivisionID == "" {
		d.DivisionID = m.s.nextID("div")
	}
	cp := *d
	m.s.divisions[d.DivisionID] = &cp
	return nil
}

func (m *mockDivisionRepo) withOU(d *model.Division) *model.Division {
	cp := *d
	if ou, ok := m.s.ous[cp.OUID]; ok {
		ouCopy := *ou
		cp.OrganizationalUnit = &ouCopy
	}
	return &cp
}

func (m *mockDivisionRepo) GetByID(_ context.Context, id string) (*model.Division, error) {
	if d, ok := m.s.divisions[id]; ok {
		return m.withOU(d), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDivisionRepo) GetByName(_ context.Context, name string) (*model.Division, error) {
	for _, d := range m.s.divisions {
		if d.Name == name {
			cp := *d
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDivisionRepo) List(_ context.Context) ([]model.Division, error) {
	result := make([]model.Division, 0, len(m.s.divisions))
	for _, d := range m.s.divisions {
		result = append(result, *m.withOU(d))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// ── Mock OrganizationalUnitRepository ──

type mockOURepo struct{ s *mockStore }

func (m *mockOURepo) Create(_ context.Context, ou *model.OrganizationalUnit) error {
	if ou.OUID == "" {
		ou.OUID = m.s.nextID("ou")
	}
	cp := *ou
	m.s.ous[ou.OUID] = &cp
	return nil
}

func (m *mockOURepo) GetByID(_ context.Context, id string) (*model.OrganizationalUnit, error) {
	if ou, ok := m.s.ous[id]; ok {
		cp := *ou
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOURepo) GetByName(_ context.Context, name string) (*model.OrganizationalUnit, error) {
	for _, ou := range m.s.ous {
		if ou.Name == name {
			cp := *ou
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOURepo) List(_ context.Context) ([]model.OrganizationalUnit, error) {
	result := make([]model.OrganizationalUnit, 0, len(m.s.ous))
	for _, ou := range m.s.ous {
		cp := *ou
		cp.Divisions = nil
		for _, d := range m.s.divisions {
			if d.OUID == ou.OUID {
				cp.Divisions = append(cp.Divisions, *d)
			}
		}
		sort.Slice(cp.Divisions, func(i, j int) bool { return cp.Divisions[i].Name < cp.Divisions[j].Name })
		result = append(result, cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// ── Mock CredentialRepository ──

type mockCredentialRepo struct{ s *mockStore }

func (m *mockCredentialRepo) Create(_ context.Context, c *model.Credential) error {
	if _, ok := m.s.divisions[c.DivisionID]; !ok {
		return fmt.Errorf("foreign key violation: division %s", c.DivisionID)
	}
	c.CredentialID = m.s.nextID("cred")
	c.CreatedAt = m.s.tick()
	c.UpdatedAt = c.CreatedAt
	cp := *c
	m.s.creds[c.CredentialID] = &cp
	return nil
}

// populate 模拟 Preload
func (m *mockCredentialRepo) populate(c *model.Credential) model.Credential {
	cp := *c
	if d, ok := m.s.divisions[cp.DivisionID]; ok {
		dc := *d
		cp.Division = &dc
	}
	if u, ok := m.s.users[cp.CreatedBy]; ok {
		uc := *u
		cp.Creator = &uc
	}
	if cp.LastUpdatedBy != nil {
		if u, ok := m.s.users[*cp.LastUpdatedBy]; ok {
			uc := *u
			cp.Updater = &uc
		}
	}
	return cp
}

func (m *mockCredentialRepo) GetByID(_ context.Context, id string) (*model.Credential, error) {
	c, ok := m.s.creds[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := m.populate(c)
	return &cp, nil
}

func (m *mockCredentialRepo) list(keep func(*model.Credential) bool) []model.Credential {
	result := make([]model.Credential, 0)
	for _, c := range m.s.creds {
		if keep(c) {
			result = append(result, m.populate(c))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result
}

func (m *mockCredentialRepo) ListAll(_ context.Context) ([]model.Credential, error) {
	return m.list(func(*model.Credential) bool { return true }), nil
}

func (m *mockCredentialRepo) ListByDivisions(_ context.Context, divisionIDs []string) ([]model.Credential, error) {
	set := make(map[string]bool, len(divisionIDs))
	for _, id := range divisionIDs {
		set[id] = true
	}
	return m.list(func(c *model.Credential) bool { return set[c.DivisionID] }), nil
}

func (m *mockCredentialRepo) Update(_ context.Context, id string, upd repository.CredentialUpdate, updatedBy string) error {
	c, ok := m.s.creds[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	apply := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	apply(&c.Title, upd.Title)
	apply(&c.Website, upd.Website)
	apply(&c.Username, upd.Username)
	apply(&c.Password, upd.Password)
	apply(&c.Description, upd.Description)
	by := updatedBy
	c.LastUpdatedBy = &by
	c.UpdatedAt = m.s.tick()
	return nil
}

func (m *mockCredentialRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.s.creds[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.s.creds, id)
	return nil
}

// ── Mock MembershipRepository ──

type mockMembershipRepo struct{ s *mockStore }

func (m *mockMembershipRepo) AssignDivision(_ context.Context, userID, divisionID string) error {
	if _, ok := m.s.users[userID]; !ok {
		return gorm.ErrRecordNotFound
	}
	if _, ok := m.s.divisions[divisionID]; !ok {
		return gorm.ErrRecordNotFound
	}
	l := link{userID, divisionID}
	if m.s.userDivs[l] {
		return repository.ErrAlreadyMember
	}
	m.s.userDivs[l] = true
	return nil
}

func (m *mockMembershipRepo) UnassignDivision(_ context.Context, userID, divisionID string) error {
	delete(m.s.userDivs, link{userID, divisionID})
	return nil
}

func (m *mockMembershipRepo) AssignOU(_ context.Context, userID, ouID string) error {
	if _, ok := m.s.users[userID]; !ok {
		return gorm.ErrRecordNotFound
	}
	if _, ok := m.s.ous[ouID]; !ok {
		return gorm.ErrRecordNotFound
	}
	l := link{userID, ouID}
	if m.s.userOUs[l] {
		return repository.ErrAlreadyMember
	}
	m.s.userOUs[l] = true
	return nil
}

func (m *mockMembershipRepo) UnassignOU(_ context.Context, userID, ouID string) error {
	delete(m.s.userOUs, link{userID, ouID})
	return nil
}

func (m *mockMembershipRepo) DivisionIDs(_ context.Context, userID string) ([]string, error) {
	var ids []string
	for l := range m.s.userDivs {
		if l.userID == userID {
			ids = append(ids, l.targetID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}
