package filter

import (
	"testing"

	"github.com/techstore/catalogqa/internal/config"
	"github.com/techstore/catalogqa/internal/domain/candidate"
)

func newDefault(t *testing.T) *Selector {
	t.Helper()
	tables, err := config.LoadRules("")
	if err != nil {
		t.Fatalf("load default rules: %v", err)
	}
	return New(tables.Filter)
}

func product(id, name, category, spec string) candidate.Candidate {
	return candidate.New(id, name+". "+spec, candidate.Metadata{
		Name: name, CategoryName: category, SpecText: spec,
	}, 0.5)
}

func assertIDs(t *testing.T, got []candidate.Candidate, want ...string) {
	t.Helper()
	ids := candidate.IDs(got)
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ids = %v, want %v", ids, want)
		}
	}
}

// Catalog fixtures shared by the tests.
var (
	tufGaming = product("tuf", "ASUS TUF Gaming F15", "Laptop Gaming",
		"Core i5-12500H, RTX 4050 6GB, 16GB DDR4, 512GB SSD, 2.2 kg")
	ideapad = product("ideapad", "Lenovo IdeaPad Slim 3", "Laptop",
		"Core i5-1235U, Intel Iris Xe, 8GB DDR4, 512GB SSD, 1.6 kg")
	vivobookHeavy = product("vivobook", "ASUS Vivobook 16", "Laptop",
		"Core i7-1355U, Intel Iris Xe, 16GB DDR4, 2.1 kg")
	legionNoGPU = product("legion", "Lenovo Legion Slim 5", "Laptop",
		"Ryzen 7 7840HS, AMD Radeon 780M, 16GB DDR5")
	galaxyS24 = product("s24", "Samsung Galaxy S24", "Điện thoại",
		"Exynos 2400, 8GB RAM, 256GB, 4000mAh, 50MP")
	xiaomiUncat = product("xiaomi", "Xiaomi Redmi Note 13", "Khuyến mãi",
		"Helio G99, 8GB RAM, 5000 mAh, 2 SIM")
	oppoUncatNoSignal = product("oppo", "OPPO Reno 11", "Hàng mới về", "Thiết kế mỏng")
	ipad = product("ipad", "iPad Air M2", "Máy tính bảng", "Apple M2, 11 inch, Wi-Fi")
	airpods = product("airpods", "AirPods Pro 2", "Tai nghe", "Chống ồn chủ động")
	tv = product("tv", "Samsung Smart TV 55 inch", "Tivi", "4K UHD, Tizen OS")
)
