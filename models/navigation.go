package models

// NavLink 导航项
type NavLink struct {
	Path  string `json:"path"`
	Label string `json:"label"`
}

// NavigationFor 按角色生成导航，仪表盘只对对应角色出现
func NavigationFor(role Role) []NavLink {
	links := []NavLink{
		{Path: "/", Label: "Home"},
		{Path: "/marketplace", Label: "Marketplace"},
	}
	switch role {
	case RoleFarmer:
		links = append(links, NavLink{Path: "/farmer-dashboard", Label: "Farmer Dashboard"})
	case RoleBuyer:
		links = append(links, NavLink{Path: "/buyer-dashboard", Label: "Buyer Dashboard"})
	}
	return append(links,
		NavLink{Path: "/contracts", Label: "Contracts"},
		NavLink{Path: "/advisory", Label: "Advisory"},
	)
}
