package models

import (
	"strings"
	"time"
)

// Grade 作物等级
type Grade string

const (
	GradePremium Grade = "Premium"
	GradeA       Grade = "Grade A"
	GradeB       Grade = "Grade B"
	GradeOrganic Grade = "Organic"
)

// Grades 固定的等级集合，按展示顺序
var Grades = []Grade{GradePremium, GradeA, GradeB, GradeOrganic}

// Valid 是否属于固定等级
func (g Grade) Valid() bool {
	for _, v := range Grades {
		if g == v {
			return true
		}
	}
	return false
}

// ParseGrade 解析等级，空串和 "all" 表示不过滤
func ParseGrade(s string) (Grade, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return "", true
	}
	g := Grade(s)
	return g, g.Valid()
}

// Crop 农户发布的出售信息
type Crop struct {
	ID          string    `json:"id"`
	FarmerID    string    `json:"farmer_id"`
	Name        string    `json:"name"`
	Grade       Grade     `json:"grade"`
	Quantity    int       `json:"quantity"`
	Price       float64   `json:"price"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// CropListing 市场列表项，附带农户信息
type CropListing struct {
	Crop
	Farmer PartySummary `json:"farmer"`
}

// RFQ 采购方发布的询价
type RFQ struct {
	ID           string    `json:"id"`
	BuyerID      string    `json:"buyer_id"`
	Crop         string    `json:"crop"`
	Grade        Grade     `json:"grade"`
	Quantity     int       `json:"quantity"`
	DeliveryDate Date      `json:"delivery_date"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
}
