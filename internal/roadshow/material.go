package roadshow

import "strings"

// MaterialKind 资料类型：基金或研报
type MaterialKind string

const (
	MaterialFund   MaterialKind = "fund"
	MaterialReport MaterialKind = "report"
)

// NormalizeMaterialKind 无法识别的类型统一归为 report，写入时不报错（兼容历史数据）
func NormalizeMaterialKind(kind string) MaterialKind {
	if MaterialKind(strings.ToLower(strings.TrimSpace(kind))) == MaterialFund {
		return MaterialFund
	}
	return MaterialReport
}

// Material 路演附带的参考资料，名称与代码均允许重复
type Material struct {
	Kind MaterialKind `json:"kind"`
	Name string       `json:"name"`
	Code string       `json:"code,omitempty"`
	URL  string       `json:"url,omitempty"`
}

// NormalizeMaterials 按原顺序规整资料列表：类型兜底、去除首尾空白
func NormalizeMaterials(in []Material) []Material {
	out := make([]Material, 0, len(in))
	for _, m := range in {
		out = append(out, Material{
			Kind: NormalizeMaterialKind(string(m.Kind)),
			Name: strings.TrimSpace(m.Name),
			Code: strings.TrimSpace(m.Code),
			URL:  strings.TrimSpace(m.URL),
		})
	}
	return out
}
