package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	"campuscard/backend/internal/model"
	"campuscard/backend/internal/repository"
	"campuscard/backend/pkg/mailer"
)

// ── Mock Repositories ──
//
// 手写内存实现，行为对齐 GORM 版本：
// 查不到返回 gorm.ErrRecordNotFound，学籍号匹配去空白且不区分大小写

type mockUserRepo struct {
	users  map[string]*model.User // key: user_id
	nextID int
	// 注入点：UpdateCredentials 强制失败（测试升级失败不阻断登录）
	failUpdateCredentials bool
	updateCredentialCalls int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if strings.EqualFold(u.Matricule, strings.TrimSpace(user.Matricule)) {
			return gorm.ErrDuplicatedKey
		}
		if strings.EqualFold(u.Email, user.Email) {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.UserID == "" {
		m.nextID++
		user.UserID = fmt.Sprintf("user-%03d", m.nextID)
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByMatricule(_ context.Context, matricule string) (*model.User, error) {
	needle := strings.TrimSpace(matricule)
	for _, u := range m.users {
		if strings.EqualFold(u.Matricule, needle) {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	needle := strings.TrimSpace(email)
	for _, u := range m.users {
		if strings.EqualFold(u.Email, needle) {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	if _, ok := m.users[user.UserID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) UpdateCredentials(_ context.Context, userID, passwordHash string, passwordChanged bool, updatedBy string) error {
	m.updateCredentialCalls++
	if m.failUpdateCredentials {
		return fmt.Errorf("mock: update credentials failed")
	}
	u, ok := m.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.PasswordHash = passwordHash
	u.PasswordChanged = passwordChanged
	u.UpdatedBy = &updatedBy
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string, deletedBy string) error {
	if _, ok := m.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) ListWithFilters(_ context.Context, filters *repository.UserListFilters, offset, limit int) ([]model.User, int64, error) {
	var all []model.User
	for _, u := range m.users {
		if filters != nil {
			if filters.Role != "" && u.Role != filters.Role {
				continue
			}
			if filters.DepartmentID != "" && (u.DepartmentID == nil || *u.DepartmentID != filters.DepartmentID) {
				continue
			}
			if filters.ProgramID != "" && (u.ProgramID == nil || *u.ProgramID != filters.ProgramID) {
				continue
			}
			if filters.Keyword != "" {
				kw := strings.ToLower(filters.Keyword)
				hay := strings.ToLower(u.Matricule + " " + u.FirstName + " " + u.LastName)
				if !strings.Contains(hay, kw) {
					continue
				}
			}
		}
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].UserID < all[j].UserID })

	total := int64(len(all))
	if offset > len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockUserRepo) CountByDepartment(_ context.Context, departmentID string) (int64, error) {
	var count int64
	for _, u := range m.users {
		if u.DepartmentID != nil && *u.DepartmentID == departmentID {
			count++
		}
	}
	return count, nil
}

func (m *mockUserRepo) BatchCountByDepartment(_ context.Context, departmentIDs []string) (map[string]int64, error) {
	result := make(map[string]int64, len(departmentIDs))
	for _, id := range departmentIDs {
		count, _ := m.CountByDepartment(nil, id)
		result[id] = count
	}
	return result, nil
}

func (m *mockUserRepo) CountByProgram(_ context.Context, programID string) (int64, error) {
	var count int64
	for _, u := range m.users {
		if u.ProgramID != nil && *u.ProgramID == programID {
			count++
		}
	}
	return count, nil
}

// ── 院系 ──

type mockDeptRepo struct {
	departments map[string]*model.Department
	nextID      int
}

func newMockDeptRepo() *mockDeptRepo {
	return &mockDeptRepo{
		departments: map[string]*model.Department{
			"dept-info": {DepartmentID: "dept-info", Name: "Informatique", IsActive: true},
		},
	}
}

func (m *mockDeptRepo) Create(_ context.Context, dept *model.Department) error {
	for _, d := range m.departments {
		if d.Name == dept.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	if dept.DepartmentID == "" {
		m.nextID++
		dept.DepartmentID = fmt.Sprintf("dept-%03d", m.nextID)
	}
	m.departments[dept.DepartmentID] = dept
	return nil
}

func (m *mockDeptRepo) GetByID(_ context.Context, id string) (*model.Department, error) {
	if d, ok := m.departments[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDeptRepo) GetByName(_ context.Context, name string) (*model.Department, error) {
	for _, d := range m.departments {
		if d.Name == name {
			return d, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDeptRepo) List(_ context.Context) ([]model.Department, error) {
	var result []model.Department
	for _, d := range m.departments {
		if d.IsActive {
			result = append(result, *d)
		}
	}
	return result, nil
}

func (m *mockDeptRepo) ListAll(_ context.Context) ([]model.Department, error) {
	var result []model.Department
	for _, d := range m.departments {
		result = append(result, *d)
	}
	return result, nil
}

func (m *mockDeptRepo) Update(_ context.Context, dept *model.Department) error {
	if _, ok := m.departments[dept.DepartmentID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.departments[dept.DepartmentID] = dept
	return nil
}

func (m *mockDeptRepo) Delete(_ context.Context, id string, deletedBy string) error {
	delete(m.departments, id)
	return nil
}

// ── 专业 ──

type mockProgramRepo struct {
	programs map[string]*model.Program
	nextID   int
}

func newMockProgramRepo() *mockProgramRepo {
	return &mockProgramRepo{
		programs: map[string]*model.Program{
			"prog-gl": {ProgramID: "prog-gl", Name: "Génie Logiciel", Code: "GL", Degree: "licence", DurationYears: 3, DepartmentID: "dept-info", IsActive: true},
		},
	}
}

func (m *mockProgramRepo) Create(_ context.Context, program *model.Program) error {
	for _, p := range m.programs {
		if p.Code == program.Code {
			return gorm.ErrDuplicatedKey
		}
	}
	if program.ProgramID == "" {
		m.nextID++
		program.ProgramID = fmt.Sprintf("prog-%03d", m.nextID)
	}
	m.programs[program.ProgramID] = program
	return nil
}

func (m *mockProgramRepo) GetByID(_ context.Context, id string) (*model.Program, error) {
	if p, ok := m.programs[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProgramRepo) GetByCode(_ context.Context, code string) (*model.Program, error) {
	for _, p := range m.programs {
		if p.Code == code {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProgramRepo) List(_ context.Context, departmentID string, includeInactive bool) ([]model.Program, error) {
	var result []model.Program
	for _, p := range m.programs {
		if departmentID != "" && p.DepartmentID != departmentID {
			continue
		}
		if !includeInactive && !p.IsActive {
			continue
		}
		result = append(result, *p)
	}
	return result, nil
}

func (m *mockProgramRepo) Update(_ context.Context, program *model.Program) error {
	if _, ok := m.programs[program.ProgramID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.programs[program.ProgramID] = program
	return nil
}

func (m *mockProgramRepo) Delete(_ context.Context, id string, deletedBy string) error {
	delete(m.programs, id)
	return nil
}

// ── 缴费 ──

type mockPaymentRepo struct {
	payments map[string]*model.Payment
	nextID   int
}

func newMockPaymentRepo() *mockPaymentRepo {
	return &mockPaymentRepo{payments: make(map[string]*model.Payment)}
}

func (m *mockPaymentRepo) Create(_ context.Context, payment *model.Payment) error {
	if payment.PaymentID == "" {
		m.nextID++
		payment.PaymentID = fmt.Sprintf("pay-%03d", m.nextID)
	}
	m.payments[payment.PaymentID] = payment
	return nil
}

func (m *mockPaymentRepo) GetByID(_ context.Context, id string) (*model.Payment, error) {
	if p, ok := m.payments[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPaymentRepo) GetActiveByUser(_ context.Context, userID string) (*model.Payment, error) {
	for _, p := range m.payments {
		if p.UserID == userID && (p.Status == model.PaymentPending || p.Status == model.PaymentApproved) {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPaymentRepo) ListWithFilters(_ context.Context, filters *repository.PaymentListFilters, offset, limit int) ([]model.Payment, int64, error) {
	var all []model.Payment
	for _, p := range m.payments {
		if filters != nil {
			if filters.Status != "" && p.Status != filters.Status {
				continue
			}
			if filters.UserID != "" && p.UserID != filters.UserID {
				continue
			}
		}
		all = append(all, *p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].PaymentID < all[j].PaymentID })

	total := int64(len(all))
	if offset > len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockPaymentRepo) ListByUser(_ context.Context, userID string) ([]model.Payment, error) {
	var result []model.Payment
	for _, p := range m.payments {
		if p.UserID == userID {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (m *mockPaymentRepo) Update(_ context.Context, payment *model.Payment) error {
	if _, ok := m.payments[payment.PaymentID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.payments[payment.PaymentID] = payment
	return nil
}

// ── 学生卡 ──

type mockCardRepo struct {
	cards  map[string]*model.Card
	nextID int
}

func newMockCardRepo() *mockCardRepo {
	return &mockCardRepo{cards: make(map[string]*model.Card)}
}

func (m *mockCardRepo) Create(_ context.Context, card *model.Card) error {
	for _, c := range m.cards {
		if c.CardNumber == card.CardNumber {
			return gorm.ErrDuplicatedKey
		}
		if c.UserID == card.UserID && c.AcademicYear == card.AcademicYear {
			return gorm.ErrDuplicatedKey
		}
	}
	if card.CardID == "" {
		m.nextID++
		card.CardID = fmt.Sprintf("card-%03d", m.nextID)
	}
	m.cards[card.CardID] = card
	return nil
}

func (m *mockCardRepo) GetByID(_ context.Context, id string) (*model.Card, error) {
	if c, ok := m.cards[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCardRepo) GetByUserAndYear(_ context.Context, userID, academicYear string) (*model.Card, error) {
	for _, c := range m.cards {
		if c.UserID == userID && c.AcademicYear == academicYear {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCardRepo) ListWithFilters(_ context.Context, filters *repository.CardListFilters, offset, limit int) ([]model.Card, int64, error) {
	var all []model.Card
	for _, c := range m.cards {
		if filters != nil {
			if filters.Status != "" && c.Status != filters.Status {
				continue
			}
			if filters.AcademicYear != "" && c.AcademicYear != filters.AcademicYear {
				continue
			}
		}
		all = append(all, *c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CardID < all[j].CardID })

	total := int64(len(all))
	if offset > len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockCardRepo) ListByUser(_ context.Context, userID string) ([]model.Card, error) {
	var result []model.Card
	for _, c := range m.cards {
		if c.UserID == userID {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (m *mockCardRepo) Update(_ context.Context, card *model.Card) error {
	if _, ok := m.cards[card.CardID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.cards[card.CardID] = card
	return nil
}

// ── 工单 ──

type mockTicketRepo struct {
	tickets  map[string]*model.Ticket
	messages map[string][]model.TicketMessage // key: ticket_id
	nextID   int
}

func newMockTicketRepo() *mockTicketRepo {
	return &mockTicketRepo{
		tickets:  make(map[string]*model.Ticket),
		messages: make(map[string][]model.TicketMessage),
	}
}

func (m *mockTicketRepo) Create(_ context.Context, ticket *model.Ticket) error {
	if ticket.TicketID == "" {
		m.nextID++
		ticket.TicketID = fmt.Sprintf("ticket-%03d", m.nextID)
	}
	m.tickets[ticket.TicketID] = ticket
	return nil
}

func (m *mockTicketRepo) GetByID(_ context.Context, id string) (*model.Ticket, error) {
	t, ok := m.tickets[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *t
	copied.Messages = m.messages[id]
	return &copied, nil
}

func (m *mockTicketRepo) ListWithFilters(_ context.Context, filters *repository.TicketListFilters, offset, limit int) ([]model.Ticket, int64, error) {
	var all []model.Ticket
	for _, t := range m.tickets {
		if filters != nil {
			if filters.Status != "" && t.Status != filters.Status {
				continue
			}
			if filters.UserID != "" && t.UserID != filters.UserID {
				continue
			}
		}
		all = append(all, *t)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].TicketID < all[j].TicketID })

	total := int64(len(all))
	if offset > len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockTicketRepo) Update(_ context.Context, ticket *model.Ticket) error {
	if _, ok := m.tickets[ticket.TicketID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *ticket
	copied.Messages = nil
	m.tickets[ticket.TicketID] = &copied
	return nil
}

func (m *mockTicketRepo) AddMessage(_ context.Context, msg *model.TicketMessage) error {
	if msg.MessageID == "" {
		msg.MessageID = fmt.Sprintf("msg-%03d", len(m.messages[msg.TicketID])+1)
	}
	m.messages[msg.TicketID] = append(m.messages[msg.TicketID], *msg)
	return nil
}

func (m *mockTicketRepo) CountMessages(_ context.Context, ticketID string) (int64, error) {
	return int64(len(m.messages[ticketID])), nil
}

// ── 聚合 ──

type mockRepos struct {
	user    *mockUserRepo
	dept    *mockDeptRepo
	program *mockProgramRepo
	payment *mockPaymentRepo
	card    *mockCardRepo
	ticket  *mockTicketRepo
}

// newMockRepository 组装全 mock 的 Repository 聚合
// db 为 nil：Transaction 直接在当前视图上执行
func newMockRepository() (*repository.Repository, *mockRepos) {
	mocks := &mockRepos{
		user:    newMockUserRepo(),
		dept:    newMockDeptRepo(),
		program: newMockProgramRepo(),
		payment: newMockPaymentRepo(),
		card:    newMockCardRepo(),
		ticket:  newMockTicketRepo(),
	}
	repo := &repository.Repository{
		User:       mocks.user,
		Department: mocks.dept,
		Program:    mocks.program,
		Payment:    mocks.payment,
		Card:       mocks.card,
		Ticket:     mocks.ticket,
	}
	return repo, mocks
}

// mockMailer 记录发送的邮件
type mockMailer struct {
	sent []string // 收件地址
}

func (m *mockMailer) Send(msg *mailer.Message) error {
	m.sent = append(m.sent, msg.ToEmail)
	return nil
}
