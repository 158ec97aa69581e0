package authz

// Role adalah peran tunggal seorang karyawan. Satu karyawan hanya punya
// satu role pada satu waktu; role tidak pernah digabung.
const (
	RoleEmployee          = "EMPLOYEE"
	RoleRestaurantManager = "RESTAURANT_MANAGER"
	RoleHRManager         = "HR_MANAGER"
	RoleFinanceManager    = "FINANCE_MANAGER"
	RoleMarketingManager  = "MARKETING_MANAGER"
	RoleAdmin             = "ADMIN"
	RoleSuperAdmin        = "SUPER_ADMIN"
	RoleBusinessOwner     = "BUSINESS_OWNER"
)

// AllRoles diurutkan untuk validasi dan seeding policy.
var AllRoles = []string{
	RoleEmployee,
	RoleRestaurantManager,
	RoleHRManager,
	RoleFinanceManager,
	RoleMarketingManager,
	RoleAdmin,
	RoleSuperAdmin,
	RoleBusinessOwner,
}

func IsValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Actor adalah identitas + role yang sudah diverifikasi server-side.
// Role TIDAK dipercaya dari request body; middleware mengisinya dari
// directory setelah token tervalidasi.
type Actor struct {
	EmployeeID string
	Role       string
}
