package view

import (
	"strings"
)

// Supported display languages
const (
	LangEnglish    = "en"
	LangVietnamese = "vi"
)

// Translator resolves a label key for a language. Unknown keys come back unchanged.
type Translator interface {
	Translate(lang, key string) string
}

// Catalog is a static in-memory Translator
type Catalog struct {
	fallback string
	messages map[string]map[string]string
}

// NewCatalog returns the built-in English/Vietnamese catalogue
func NewCatalog() *Catalog {
	return &Catalog{
		fallback: LangEnglish,
		messages: map[string]map[string]string{
			LangEnglish: {
				"menu.pho_bo":         "Beef Pho",
				"menu.banh_mi":        "Grilled Pork Banh Mi",
				"menu.goi_cuon":       "Fresh Spring Rolls",
				"menu.bun_cha":        "Bun Cha Hanoi",
				"menu.com_tam":        "Broken Rice with Pork Chop",
				"menu.bo_luc_lac":     "Shaking Beef",
				"menu.canh_chua":      "Sweet and Sour Fish Soup",
				"menu.ca_phe_sua_da":  "Iced Milk Coffee",
				"menu.tra_dao":        "Peach Tea",
				"menu.che_ba_mau":     "Three Color Dessert",
				"cart.subtotal":       "Subtotal",
				"cart.discount":       "Discount",
				"cart.shipping":       "Shipping",
				"cart.total":          "Total",
				"cart.empty":          "Your cart is empty",
				"coupon.invalid":      "Invalid coupon code",
				"coupon.applied":      "Coupon applied",
				"checkout.empty_cart": "Your cart is empty. Add some dishes before checking out.",
			},
			LangVietnamese: {
				"menu.pho_bo":         "Phở bò",
				"menu.banh_mi":        "Bánh mì thịt nướng",
				"menu.goi_cuon":       "Gỏi cuốn",
				"menu.bun_cha":        "Bún chả Hà Nội",
				"menu.com_tam":        "Cơm tấm sườn",
				"menu.bo_luc_lac":     "Bò lúc lắc",
				"menu.canh_chua":      "Canh chua cá",
				"menu.ca_phe_sua_da":  "Cà phê sữa đá",
				"menu.tra_dao":        "Trà đào",
				"menu.che_ba_mau":     "Chè ba màu",
				"cart.subtotal":       "Tạm tính",
				"cart.discount":       "Giảm giá",
				"cart.shipping":       "Phí giao hàng",
				"cart.total":          "Tổng cộng",
				"cart.empty":          "Giỏ hàng của bạn đang trống",
				"coupon.invalid":      "Mã giảm giá không hợp lệ",
				"coupon.applied":      "Đã áp dụng mã giảm giá",
				"checkout.empty_cart": "Giỏ hàng đang trống. Hãy thêm món trước khi thanh toán.",
			},
		},
	}
}

// Translate looks key up in lang, then in the fallback language
func (c *Catalog) Translate(lang, key string) string {
	if msg, ok := c.messages[NormalizeLang(lang)][key]; ok {
		return msg
	}
	if msg, ok := c.messages[c.fallback][key]; ok {
		return msg
	}
	return key
}

// NormalizeLang reduces an Accept-Language style value to a supported language
func NormalizeLang(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(lang, ",;"); i >= 0 {
		lang = lang[:i]
	}
	if i := strings.IndexAny(lang, "-_"); i >= 0 {
		lang = lang[:i]
	}
	if lang == LangVietnamese {
		return LangVietnamese
	}
	return LangEnglish
}
