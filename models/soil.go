package models

import (
	"time"
)

// SoilTest 土壤检测上传记录
type SoilTest struct {
	ID       string `json:"id"`
	FarmerID string `json:"farmer_id"`
	// 存储中的公开地址
	FileURL   string    `json:"file_url"`
	FileName  string    `json:"file_name"`
	Advice    *string   `json:"advice"`
	CreatedAt time.Time `json:"created_at"`
}

// AdviceOptions 上传后附带的建议文本，从中任选其一
var AdviceOptions = []string{
	"Your soil shows good nitrogen levels. Consider adding phosphorus-rich fertilizers to optimize crop yield. The pH level is slightly acidic, which is suitable for most crops but consider lime application for better results.",
	"Soil analysis indicates low organic matter. We recommend incorporating compost or green manure to improve soil structure and water retention. Your potassium levels are adequate for current crop requirements.",
	"Excellent soil health detected! Your soil has balanced nutrients and good drainage. Maintain current practices and consider crop rotation to sustain these optimal conditions for long-term productivity.",
	"The soil shows signs of nutrient depletion. We suggest a comprehensive fertilization program focusing on NPK balance. Also consider soil testing for micronutrients like iron, zinc, and manganese.",
	"Your soil has high clay content which is good for nutrient retention but may require improved drainage. Consider adding organic matter and sand to improve soil structure and aeration for better root development.",
}
