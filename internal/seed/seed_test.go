package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lukhanyo05/cooltech-credentials/internal/model"
)

func TestDefault_IsConsistent(t *testing.T) {
	ds := Default()
	require.NoError(t, ds.Validate())

	assert.Len(t, ds.OUs, 4)
	assert.Len(t, ds.Divisions, 6)
	require.Len(t, ds.Users, 3)

	roles := map[model.Role]bool{}
	for _, u := range ds.Users {
		roles[u.Role] = true
	}
	assert.Equal(t, map[model.Role]bool{model.RoleUser: true, model.RoleManager: true, model.RoleAdmin: true}, roles)

	admin := ds.Users[2]
	assert.Len(t, admin.Divisions, len(ds.Divisions), "管理员应属于全部部门")
	assert.Len(t, admin.OUs, len(ds.OUs))
}

func TestDefault_ContainsRegistrationDefaults(t *testing.T) {
	ds := Default()
	var found bool
	for _, d := range ds.Divisions {
		if d.Name == "Content Division" {
			found = true
			assert.Equal(t, "Opinion Publishing", d.OU)
		}
	}
	assert.True(t, found, "注册默认部门应存在于演示数据中")
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name string
		ds   Dataset
	}{
		{"组织单元重复", Dataset{OUs: []OU{{Name: "A"}, {Name: "A"}}}},
		{"部门引用缺失", Dataset{OUs: []OU{{Name: "A"}}, Divisions: []Division{{Name: "D", OU: "B"}}}},
		{"用户引用缺失部门", Dataset{
			OUs:   []OU{{Name: "A"}},
			Users: []User{{Username: "u", Role: model.RoleUser, Divisions: []string{"X"}}},
		}},
		{"用户角色无效", Dataset{Users: []User{{Username: "u", Role: "root"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.ds.Validate())
		})
	}
}
