package service

import (
	"bytes"
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Lukhanyo05/cooltech-credentials/internal/dto"
	"github.com/Lukhanyo05/cooltech-credentials/internal/model"
	"github.com/Lukhanyo05/cooltech-credentials/internal/policy"
	"github.com/Lukhanyo05/cooltech-credentials/internal/repository"
	apperrors "github.com/Lukhanyo05/cooltech-credentials/pkg/errors"
)

// UserService 用户管理业务接口（管理员）
type UserService interface {
	ListUsers(ctx context.Context) ([]dto.UserResponse, error)
	ChangeRole(ctx context.Context, actor policy.Actor, userID string, role model.Role) (*dto.UserResponse, error)
	AssignDivision(ctx context.Context, actor policy.Actor, userID, divisionID string) (*dto.UserResponse, error)
	UnassignDivision(ctx context.Context, actor policy.Actor, userID, divisionID string) (*dto.UserResponse, error)
	AssignOU(ctx context.Context, actor policy.Actor, userID, ouID string) (*dto.UserResponse, error)
	UnassignOU(ctx context.Context, actor policy.Actor, userID, ouID string) (*dto.UserResponse, error)
	// ExportUsers 导出用户及成员关系为 Excel，返回内容与建议文件名
	ExportUsers(ctx context.Context) (*bytes.Buffer, string, error)
	ParseImportFile(reader io.Reader) ([]ImportUserRow, error)
	ImportUsers(ctx context.Context, actor policy.Actor, rows []ImportUserRow) (*dto.ImportUserResponse, error)
}

// ImportUserRow Excel 导入解析后的单行数据
type ImportUserRow struct {
	Row          int
	Name         string
	Username     string
	Email        string
	Role         string
	DivisionName string
	OUName       string
}

type userService struct {
	repo     *repository.Repository
	logger   *zap.Logger
	hashCost int
	now      func() time.Time
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger, hashCost: bcrypt.DefaultCost, now: time.Now}
}

// ────────────────────── ListUsers ──────────────────────

func (s *userService) ListUsers(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.repo.User.ListWithMemberships(ctx)
	if err != nil {
		s.logger.Error("列出用户失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, dto.NewUserResponse(&users[i]))
	}
	return result, nil
}

// ────────────────────── ChangeRole ──────────────────────

func (s *userService) ChangeRole(ctx context.Context, actor policy.Actor, userID string, role model.Role) (*dto.UserResponse, error) {
	if err := policy.AuthorizeRoleChange(actor, userID, role); err != nil {
		return nil, err
	}

	if err := s.repo.User.UpdateRole(ctx, userID, role); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("修改角色失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("用户角色已修改",
		zap.String("user_id", userID),
		zap.String("role", string(role)),
		zap.String("operator", actor.UserID),
	)
	return s.profile(ctx, userID)
}

// ────────────────────── 部门分配 ──────────────────────

func (s *userService) AssignDivision(ctx context.Context, actor policy.Actor, userID, divisionID string) (*dto.UserResponse, error) {
	if err := s.checkDivisionTarget(ctx, actor, userID, divisionID); err != nil {
		return nil, err
	}

	if err := s.repo.Membership.AssignDivision(ctx, userID, divisionID); err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyMember):
			return nil, ErrAlreadyInDivision
		case errors.Is(err, gorm.ErrRecordNotFound):
			// 校验后被并发删除
			return nil, ErrUserNotFound
		}
		s.logger.Error("分配部门失败", zap.String("user_id", userID), zap.String("division_id", divisionID), zap.Error(err))
		return nil, err
	}
	return s.profile(ctx, userID)
}

func (s *userService) UnassignDivision(ctx context.Context, actor policy.Actor, userID, divisionID string) (*dto.UserResponse, error) {
	if err := s.checkDivisionTarget(ctx, actor, userID, divisionID); err != nil {
		return nil, err
	}

	if err := s.repo.Membership.UnassignDivision(ctx, userID, divisionID); err != nil {
		s.logger.Error("取消部门分配失败", zap.String("user_id", userID), zap.String("division_id", divisionID), zap.Error(err))
		return nil, err
	}
	return s.profile(ctx, userID)
}

func (s *userService) checkDivisionTarget(ctx context.Context, actor policy.Actor, userID, divisionID string) error {
	if err := policy.AuthorizeMembershipChange(actor); err != nil {
		return err
	}
	if err := s.ensureUser(ctx, userID); err != nil {
		return err
	}
	if _, err := s.repo.Division.GetByID(ctx, divisionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDivisionNotFound
		}
		s.logger.Error("查询部门失败", zap.String("division_id", divisionID), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── 组织单元分配 ──────────────────────

func (s *userService) AssignOU(ctx context.Context, actor policy.Actor, userID, ouID string) (*dto.UserResponse, error) {
	if err := s.checkOUTarget(ctx, actor, userID, ouID); err != nil {
		return nil, err
	}

	if err := s.repo.Membership.AssignOU(ctx, userID, ouID); err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyMember):
			return nil, ErrAlreadyInOU
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrUserNotFound
		}
		s.logger.Error("分配组织单元失败", zap.String("user_id", userID), zap.String("ou_id", ouID), zap.Error(err))
		return nil, err
	}
	return s.profile(ctx, userID)
}

func (s *userService) UnassignOU(ctx context.Context, actor policy.Actor, userID, ouID string) (*dto.UserResponse, error) {
	if err := s.checkOUTarget(ctx, actor, userID, ouID); err != nil {
		return nil, err
	}

	if err := s.repo.Membership.UnassignOU(ctx, userID, ouID); err != nil {
		s.logger.Error("取消组织单元分配失败", zap.String("user_id", userID), zap.String("ou_id", ouID), zap.Error(err))
		return nil, err
	}
	return s.profile(ctx, userID)
}

func (s *userService) checkOUTarget(ctx context.Context, actor policy.Actor, userID, ouID string) error {
	if err := policy.AuthorizeMembershipChange(actor); err != nil {
		return err
	}
	if err := s.ensureUser(ctx, userID); err != nil {
		return err
	}
	if _, err := s.repo.OrganizationalUnit.GetByID(ctx, ouID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOUNotFound
		}
		s.logger.Error("查询组织单元失败", zap.String("ou_id", ouID), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── ExportUsers ──────────────────────

var exportHeader = []string{"Name", "Username", "Email", "Role", "Divisions", "Organizational Units", "Created At"}

func (s *userService) ExportUsers(ctx context.Context) (*bytes.Buffer, string, error) {
	users, err := s.repo.User.ListWithMemberships(ctx)
	if err != nil {
		s.logger.Error("列出用户失败", zap.Error(err))
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Users"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	for i, h := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	last, _ := excelize.CoordinatesToCellName(len(exportHeader), 1)
	_ = f.SetCellStyle(sheet, "A1", last, headerStyle)
	_ = f.SetColWidth(sheet, "A", "C", 24)
	_ = f.SetColWidth(sheet, "E", "F", 36)

	for r, u := range users {
		divisions := make([]string, 0, len(u.Divisions))
		for _, d := range u.Divisions {
			divisions = append(divisions, d.Name)
		}
		ous := make([]string, 0, len(u.OrganizationalUnits))
		for _, ou := range u.OrganizationalUnits {
			ous = append(ous, ou.Name)
		}
		values := []interface{}{
			u.Name, u.Username, u.Email, string(u.Role),
			strings.Join(divisions, "; "), strings.Join(ous, "; "),
			u.CreatedAt.UTC().Format(time.RFC3339),
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			s.logger.Error("写入 Excel 行失败", zap.Int("row", r+2), zap.Error(err))
			return nil, "", err
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", err
	}

	filename := fmt.Sprintf("users_%s.xlsx", s.now().Format("20060102"))
	return buf, filename, nil
}

// ────────────────────── ParseImportFile ──────────────────────

const maxImportRows = 1000

var (
	ErrImportNoData      = apperrors.Validation("Excel file has no data rows (first row is the header)")
	ErrImportTooManyRows = apperrors.Validation("Excel file exceeds the limit of %d rows", maxImportRows)
	ErrImportBadHeader   = apperrors.Validation("Excel header must contain name, username and email columns")
)

// ParseImportFile 解析导入 Excel 文件，返回解析后的行数据
func (s *userService) ParseImportFile(reader io.Reader) ([]ImportUserRow, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, apperrors.Validation("Unable to read Excel file")
	}
	defer f.Close()

	excelRows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, apperrors.Validation("Unable to read worksheet")
	}
	if len(excelRows) < 2 {
		return nil, ErrImportNoData
	}

	// 解析表头（支持灵活列序）
	colIndex := parseHeaderIndex(excelRows[0])
	if colIndex["name"] < 0 || colIndex["username"] < 0 || colIndex["email"] < 0 {
		return nil, ErrImportBadHeader
	}

	cellAt := func(row []string, key string) string {
		if idx := colIndex[key]; idx >= 0 && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	var rows []ImportUserRow
	for i := 1; i < len(excelRows); i++ {
		row := excelRows[i]
		item := ImportUserRow{
			Row:          i + 1,
			Name:         cellAt(row, "name"),
			Username:     strings.ToLower(cellAt(row, "username")),
			Email:        strings.ToLower(cellAt(row, "email")),
			Role:         strings.ToLower(cellAt(row, "role")),
			DivisionName: cellAt(row, "division"),
			OUName:       cellAt(row, "ou"),
		}

		// 跳过全空行
		if item.Name == "" && item.Username == "" && item.Email == "" {
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
		"name":     -1,
		"username": -1,
		"email":    -1,
		"role":     -1,
		"division": -1,
		"ou":       -1,
	}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "name":
			idx["name"] = i
		case "username":
			idx["username"] = i
		case "email":
			idx["email"] = i
		case "role":
			idx["role"] = i
		case "division", "divisions":
			idx["division"] = i
		case "ou", "organizational unit", "organizational units":
			idx["ou"] = i
		}
	}
	return idx
}

// ────────────────────── ImportUsers ──────────────────────

// ImportUsers 逐行校验并创建用户；每行独立事务，失败行记入 errors
func (s *userService) ImportUsers(ctx context.Context, actor policy.Actor, rows []ImportUserRow) (*dto.ImportUserResponse, error) {
	if err := policy.AuthorizeMembershipChange(actor); err != nil {
		return nil, err
	}

	resp := &dto.ImportUserResponse{Total: len(rows)}
	fail := func(row int, reason string, args ...any) {
		resp.Failed++
		resp.Errors = append(resp.Errors, dto.ImportUserError{Row: row, Reason: fmt.Sprintf(reason, args...)})
	}

	// 预加载部门与组织单元，便于按名称查找
	divisions, err := s.repo.Division.List(ctx)
	if err != nil {
		s.logger.Error("加载部门列表失败", zap.Error(err))
		return nil, err
	}
	divByName := make(map[string]string, len(divisions))
	for _, d := range divisions {
		divByName[d.Name] = d.DivisionID
	}
	ous, err := s.repo.OrganizationalUnit.List(ctx)
	if err != nil {
		s.logger.Error("加载组织单元列表失败", zap.Error(err))
		return nil, err
	}
	ouByName := make(map[string]string, len(ous))
	for _, ou := range ous {
		ouByName[ou.Name] = ou.OUID
	}

	// 同一文件内的重复项
	seen := make(map[string]int)

	for _, row := range rows {
		if reason := validateImportRow(row); reason != "" {
			fail(row.Row, "%s", reason)
			continue
		}
		role := model.RoleUser
		if row.Role != "" {
			role = model.Role(row.Role)
			if !role.Valid() {
				fail(row.Row, "invalid role: %s", row.Role)
				continue
			}
		}

		var divisionIDs, ouIDs []string
		if row.DivisionName != "" {
			id, ok := divByName[row.DivisionName]
			if !ok {
				fail(row.Row, "division not found: %s", row.DivisionName)
				continue
			}
			divisionIDs = append(divisionIDs, id)
		}
		if row.OUName != "" {
			id, ok := ouByName[row.OUName]
			if !ok {
				fail(row.Row, "organizational unit not found: %s", row.OUName)
				continue
			}
			ouIDs = append(ouIDs, id)
		}

		if prev, ok := seen["u:"+row.Username]; ok {
			fail(row.Row, "duplicate username in file (row %d)", prev)
			continue
		}
		if prev, ok := seen["e:"+row.Email]; ok {
			fail(row.Row, "duplicate email in file (row %d)", prev)
			continue
		}
		seen["u:"+row.Username] = row.Row
		seen["e:"+row.Email] = row.Row

		exists, err := s.repo.User.ExistsByEmailOrUsername(ctx, row.Email, row.Username)
		if err != nil {
			s.logger.Error("检查用户唯一性失败", zap.Int("row", row.Row), zap.Error(err))
			return nil, err
		}
		if exists {
			fail(row.Row, "user already exists with this email or username")
			continue
		}

		tempPassword, err := generateTempPassword(12)
		if err != nil {
			s.logger.Error("生成临时密码失败", zap.Error(err))
			return nil, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), s.hashCost)
		if err != nil {
			s.logger.Error("密码哈希失败", zap.Error(err))
			return nil, err
		}

		user := &model.User{
			Name:         row.Name,
			Username:     row.Username,
			Email:        row.Email,
			PasswordHash: string(hash),
			Role:         role,
		}
		if err := s.repo.User.CreateWithMemberships(ctx, user, divisionIDs, ouIDs); err != nil {
			if apperrors.IsUniqueViolation(err) {
				fail(row.Row, "user already exists with this email or username")
				continue
			}
			s.logger.Error("导入用户写入失败", zap.Int("row", row.Row), zap.Error(err))
			return nil, fmt.Errorf("第 %d 行写入数据库失败: %w", row.Row, err)
		}

		resp.Success++
		resp.Created = append(resp.Created, dto.ImportedUser{
			Row:          row.Row,
			ID:           user.UserID,
			Username:     user.Username,
			TempPassword: tempPassword,
		})
	}

	s.logger.Info("批量导入用户完成",
		zap.Int("total", resp.Total),
		zap.Int("success", resp.Success),
		zap.Int("failed", resp.Failed),
		zap.String("operator", actor.UserID),
	)
	return resp, nil
}

// validateImportRow 按注册接口的字段规则校验，返回失败原因
func validateImportRow(row ImportUserRow) string {
	req := dto.RegisterRequest{Name: row.Name, Username: row.Username, Email: row.Email}
	err := req.ValidateProfile()
	if err == nil {
		return ""
	}
	fields, ok := dto.FieldErrors(err)
	if !ok {
		return err.Error()
	}
	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, "; ")
}

// ── 内部辅助方法 ──

func (s *userService) ensureUser(ctx context.Context, userID string) error {
	if _, err := s.repo.User.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("user_id", userID), zap.Error(err))
		return err
	}
	return nil
}

// profile 返回含成员关系的用户资料
func (s *userService) profile(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetWithMemberships(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("加载用户资料失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// generateTempPassword 生成指定长度的临时密码（保证包含字母和数字）
func generateTempPassword(length int) (string, error) {
	const letters = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ"
	const digits = "23456789"
	const all = letters + digits

	if length < 8 {
		length = 8
	}

	pick := func(set string) (byte, error) {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
		if err != nil {
			return 0, err
		}
		return set[n.Int64()], nil
	}

	result := make([]byte, length)
	var err error
	if result[0], err = pick(letters); err != nil {
		return "", err
	}
	if result[1], err = pick(digits); err != nil {
		return "", err
	}
	for i := 2; i < length; i++ {
		if result[i], err = pick(all); err != nil {
			return "", err
		}
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
