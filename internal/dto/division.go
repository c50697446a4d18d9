package dto

import "github.com/Lukhanyo05/cooltech-credentials/internal/model"

// ── 部门/组织单元 DTO ──

// DivisionResponse 部门（含所属组织单元）
type DivisionResponse struct {
	ID                 string                     `json:"id"`
	Name               string                     `json:"name"`
	Description        string                     `json:"description"`
	OrganizationalUnit *OrganizationalUnitSummary `json:"organizational_unit"`
}

// OrganizationalUnitResponse 组织单元（含下属部门）
type OrganizationalUnitResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Divisions   []DivisionSummary `json:"divisions"`
}

// MyDivisionsResponse 当前用户所属部门与组织单元
type MyDivisionsResponse struct {
	Divisions           []DivisionResponse          `json:"divisions"`
	OrganizationalUnits []OrganizationalUnitSummary `json:"organizational_units"`
}

// NewDivisionResponse 由模型构建
func NewDivisionResponse(d *model.Division) DivisionResponse {
	resp := DivisionResponse{ID: d.DivisionID, Name: d.Name, Description: d.Description}
	if ou := d.OrganizationalUnit; ou != nil {
		resp.OrganizationalUnit = &OrganizationalUnitSummary{ID: ou.OUID, Name: ou.Name, Description: ou.Description}
	}
	return resp
}

// NewOrganizationalUnitResponse 由模型构建
func NewOrganizationalUnitResponse(ou *model.OrganizationalUnit) OrganizationalUnitResponse {
	resp := OrganizationalUnitResponse{
		ID:          ou.OUID,
		Name:        ou.Name,
		Description: ou.Description,
		Divisions:   make([]DivisionSummary, 0, len(ou.Divisions)),
	}
	for i := range ou.Divisions {
		resp.Divisions = append(resp.Divisions, *NewDivisionSummary(&ou.Divisions[i]))
	}
	return resp
}
