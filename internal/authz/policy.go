package authz

// Permission adalah satu baris pada tabel otorisasi pusat:
// role mana boleh melakukan action apa pada resource apa.
// Aturan yang sensitif terhadap STATE (mis. siapa boleh approve cuti
// pada status tertentu) tetap milik engine masing-masing; tabel ini
// hanya gerbang kasar resource x action.
type Permission struct {
	Role     string
	Resource string
	Action   string
}

const (
	// grupRole "ANY_STAFF" menampung semua role untuk permission baca
	GroupAnyStaff = "ANY_STAFF"
)

// PermissionTable adalah sumber kebenaran tunggal gerbang role.
// Di-load ke casbin saat startup; tidak ada kondisi role tersebar di handler.
var PermissionTable = []Permission{
	// Leave: semua karyawan boleh membaca daftar miliknya dan mengajukan;
	// approve/reject hanya dua tier penyetuju.
	{GroupAnyStaff, "leave", "read"},
	{GroupAnyStaff, "leave", "create"},
	{RoleRestaurantManager, "leave", "approve"},
	{RoleHRManager, "leave", "approve"},

	// Schedule: semua role boleh membaca jadwal periode;
	// generate/update/publish eksklusif Restaurant Manager.
	{GroupAnyStaff, "schedule", "read"},
	{RoleRestaurantManager, "schedule", "generate"},
	{RoleRestaurantManager, "schedule", "update"},
	{RoleRestaurantManager, "schedule", "publish"},

	// Notification inbox: setiap karyawan membaca notifikasinya sendiri.
	{GroupAnyStaff, "notification", "read"},
}
