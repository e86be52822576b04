package services

// Tip is one entry of the weight-loss tips screen.
type Tip struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Plan is one entry of the diet plans screen.
type Plan struct {
	Name        string   `json:"name"`
	Duration    string   `json:"duration"`
	Calories    string   `json:"calories"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
}

var defaultTips = []Tip{
	{Title: "Hidratação é Fundamental", Description: "Beba pelo menos 2 litros de água por dia. A água ajuda na digestão e acelera o metabolismo.", Icon: "💧"},
	{Title: "Coma Devagar", Description: "Mastigue bem os alimentos e faça refeições sem pressa. Isso ajuda na digestão e aumenta a saciedade.", Icon: "🍽️"},
	{Title: "Durma Bem", Description: "Tenha 7-8 horas de sono por noite. O sono adequado regula hormônios da fome e saciedade.", Icon: "😴"},
	{Title: "Exercícios Regulares", Description: "Pratique atividades físicas pelo menos 3x por semana. Combine cardio com treino de força.", Icon: "💪"},
	{Title: "Evite Açúcar Refinado", Description: "Reduza o consumo de doces e refrigerantes. Prefira frutas para satisfazer a vontade de doce.", Icon: "🍬"},
	{Title: "Proteína em Todas as Refeições", Description: "Inclua fontes de proteína em cada refeição. Isso aumenta a saciedade e preserva massa muscular.", Icon: "🥩"},
}

var defaultPlans = []Plan{
	{
		Name:        "Plano Iniciante",
		Duration:    "4 semanas",
		Calories:    "1800 kcal/dia",
		Description: "Perfeito para quem está começando a jornada de emagrecimento",
		Features:    []string{"3 refeições + 2 lanches", "Receitas simples", "Lista de compras", "Suporte básico"},
	},
	{
		Name:        "Plano Intermediário",
		Duration:    "8 semanas",
		Calories:    "1600 kcal/dia",
		Description: "Para quem já tem experiência e quer resultados mais rápidos",
		Features:    []string{"5 refeições balanceadas", "Receitas variadas", "Plano de treino", "Acompanhamento semanal"},
	},
	{
		Name:        "Plano Avançado",
		Duration:    "12 semanas",
		Calories:    "1400 kcal/dia",
		Description: "Transformação completa com acompanhamento personalizado",
		Features:    []string{"Dieta personalizada", "Treino intensivo", "Suplementação", "Acompanhamento diário"},
	},
}
