package answer

import (
	"github.com/techstore/catalogqa/internal/domain/intent"
	"github.com/techstore/catalogqa/internal/domain/specs"
)

// Fixed customer-facing messages.
const (
	msgOutOfDomain = "Dạ, em xin lỗi, cửa hàng chỉ kinh doanh các sản phẩm công nghệ nên em chưa thể hỗ trợ về %s ạ. " +
		"Anh/chị có cần tư vấn laptop, điện thoại hay phụ kiện không ạ?"

	msgNoResults = "Dạ, em rất tiếc nhưng hiện tại em không tìm thấy sản phẩm nào phù hợp với yêu cầu của anh/chị ạ."

	msgNoResultsIntent = "Dạ, em rất tiếc nhưng hiện tại em không tìm thấy sản phẩm nào thuộc nhóm %s " +
		"phù hợp với yêu cầu của anh/chị ạ."

	msgPriceUnknown = "Liên hệ để biết giá"
	msgVerboseHead  = "Dạ, em gửi anh/chị thông tin chi tiết về %s ạ:"
	msgPrice        = "Giá: %s"
	msgUSP          = "Điểm nổi bật: %s"
	msgUseCase      = "Phù hợp: %s"
	msgDescription  = "Mô tả: %s"
	msgAlternates   = "Ngoài ra anh/chị có thể tham khảo thêm: %s."
	defaultFollowUp = "Anh/chị có muốn em tư vấn thêm lựa chọn khác không ạ?"
)

const (
	maxAlternates       = 2
	maxDescriptionRunes = 600
)

var fieldLabels = map[specs.Field]string{
	specs.Processor: "Bộ xử lý",
	specs.Graphics:  "Card đồ họa",
	specs.Memory:    "RAM",
	specs.Storage:   "Bộ nhớ",
	specs.Battery:   "Pin",
	specs.Weight:    "Trọng lượng",
	specs.Screen:    "Màn hình",
}

// template is the non-verbose layout for one intent.
type template struct {
	headline string // %s is the product name
	fields   []specs.Field
	useCase  bool
	followUp string
}

var templates = map[intent.Intent]template{
	intent.General: {
		headline: "Dạ, em xin gợi ý sản phẩm %s ạ.",
		fields:   []specs.Field{specs.Processor, specs.Memory, specs.Storage, specs.Screen},
		useCase:  true,
		followUp: defaultFollowUp,
	},
	intent.Gaming: {
		headline: "Dạ, với nhu cầu chơi game, em đề xuất %s ạ.",
		fields:   []specs.Field{specs.Processor, specs.Graphics, specs.Memory, specs.Screen},
		followUp: "Anh/chị thường chơi những tựa game nào để em tư vấn cấu hình sát hơn ạ?",
	},
	intent.Office: {
		headline: "Dạ, cho công việc văn phòng, em gợi ý %s gọn nhẹ và bền bỉ ạ.",
		fields:   []specs.Field{specs.Processor, specs.Memory, specs.Storage, specs.Weight},
		followUp: "Anh/chị có hay mang máy đi lại nhiều không ạ?",
	},
	intent.Business: {
		headline: "Dạ, cho nhu cầu doanh nhân, em đề xuất %s ạ.",
		fields:   []specs.Field{specs.Processor, specs.Memory, specs.Storage, specs.Weight},
		followUp: defaultFollowUp,
	},
	intent.Laptop: {
		headline: "Dạ, em gợi ý laptop %s ạ.",
		fields:   []specs.Field{specs.Processor, specs.Memory, specs.Storage, specs.Screen},
		followUp: "Anh/chị dùng máy chủ yếu cho học tập, làm việc hay giải trí ạ?",
	},
	intent.Phone: {
		headline: "Dạ, em gợi ý điện thoại %s ạ.",
		fields:   []specs.Field{specs.Processor, specs.Memory, specs.Storage, specs.Battery, specs.Screen},
		followUp: "Anh/chị ưu tiên camera, pin hay hiệu năng hơn ạ?",
	},
	intent.Tablet: {
		headline: "Dạ, em gợi ý máy tính bảng %s ạ.",
		fields:   []specs.Field{specs.Processor, specs.Storage, specs.Screen, specs.Battery},
		followUp: defaultFollowUp,
	},
	intent.Accessory: {
		headline: "Dạ, em gợi ý phụ kiện %s ạ.",
		fields:   []specs.Field{specs.Battery, specs.Weight},
		followUp: "Anh/chị đang dùng thiết bị nào để em kiểm tra độ tương thích ạ?",
	},
	intent.Camera: {
		headline: "Dạ, cho nhu cầu chụp ảnh, quay phim, em gợi ý %s ạ.",
		fields:   []specs.Field{specs.Screen, specs.Battery, specs.Storage, specs.Weight},
		followUp: defaultFollowUp,
	},
	intent.Battery: {
		headline: "Dạ, em gợi ý %s để anh/chị luôn đủ pin khi di chuyển ạ.",
		fields:   []specs.Field{specs.Battery, specs.Weight},
		followUp: defaultFollowUp,
	},
	intent.Display: {
		headline: "Dạ, em gợi ý màn hình %s ạ.",
		fields:   []specs.Field{specs.Screen},
		followUp: "Anh/chị dùng màn hình để làm việc, đồ họa hay chơi game ạ?",
	},
	intent.Storage: {
		headline: "Dạ, em gợi ý thiết bị lưu trữ %s ạ.",
		fields:   []specs.Field{specs.Storage},
		followUp: defaultFollowUp,
	},
}
