package prompt

import "interiorai/internal/domain"

func styleDescription(s domain.Style) string {
	switch s {
	case domain.StyleIndustrial:
		return "industrial loft style, exposed brick walls, metal and iron accents, raw concrete, Edison bulb lighting, dark moody tones"
	case domain.StyleScandinavian:
		return "Scandinavian nordic style, light natural wood, white walls, cozy textiles, hygge atmosphere, plants, minimal decor"
	case domain.StyleBohemian:
		return "bohemian boho style, colorful patterns and textiles, many houseplants, eclectic vintage furniture, natural materials"
	case domain.StyleArtDeco:
		return "art deco style, geometric patterns, gold brass accents, velvet upholstery, glamorous vintage Hollywood feel"
	case domain.StyleMinimalist:
		return "minimalist zen style, very simple forms, monochrome palette, only essential furniture, lots of empty space"
	case domain.StyleTraditional:
		return "traditional classic style, ornate furniture, rich warm colors, symmetrical layout, elegant crown moldings"
	case domain.StyleRustic:
		return "rustic farmhouse style, reclaimed wood, stone fireplace, warm earthy tones, cozy cabin atmosphere"
	default:
		return "modern contemporary style, clean lines, minimalist furniture, neutral colors with accent pieces, sleek surfaces, large windows"
	}
}

func roomDescription(r domain.RoomType) string {
	switch r {
	case domain.RoomBedroom:
		return "cozy master bedroom with king size bed, bedside lamps, large wardrobe, vanity mirror, soft carpet, wall art, cozy armchair, ceiling fan"
	case domain.RoomKitchen:
		return "modern gourmet kitchen with marble countertops, high-end appliances, kitchen island with bar stools, pendant lighting, cabinetry, decorative vase"
	case domain.RoomBathroom:
		return "spa-like bathroom with freestanding bathtub, glass shower, double vanity, large mirror, towel warmer, indoor plants, marble tiles"
	case domain.RoomOffice:
		return "professional home office with ergonomic desk, leather chair, wall shelving units, library, reading lamp, wall clock, modern decor"
	case domain.RoomDining:
		return "elegant dining room with large solid wood table, upholstered chairs, crystal chandelier, sideboard with mirror, table centerpiece, wall art"
	default:
		return "luxury living room with large comfortable sofa, designer coffee table, wall clock, lush indoor plants, textured area rug, art pieces on walls, soft throw pillows, curtains"
	}
}

func scenarioDescription(s domain.Scenario) string {
	switch s {
	case domain.ScenarioCinema:
		return "Layout: Theater arrangement, seating facing screen. Furniture: Large L-shaped sofa facing a large wall-mounted TV or projection screen, low coffee table. Atmosphere: Dim warm ambient lighting, blackout curtains, cozy movie night vibes."
	case domain.ScenarioHosting:
		return "Layout: Social circle arrangement, maximizing seating capacity. Furniture: Large sectional sofa, multiple armchairs arranged in a conversation circle, side tables, avoiding empty corners. Atmosphere: Bright welcoming lighting, fresh flowers, crowded and lively."
	case domain.ScenarioWorkspace:
		return "Layout: Productivity focused, desk facing room or window. Furniture: Ergonomic office chair, large desk with technology, bookshelves in background. Atmosphere: Task lighting, organized, professional and clean."
	case domain.ScenarioRelaxing:
		return "Layout: Cozy nook arrangement. Furniture: Comfortable reading chair or chaise lounge near window/light source, soft textures, floor cushions. Atmosphere: Zen, peaceful, soft sunlight, plants."
	case domain.ScenarioLuxury:
		return "Layout: Symmetrical formal arrangement. Furniture: High-end designer furniture, matching sets, grand scale items. Atmosphere: Hotel suite vibes, velvet, gold accents, spot lighting on art."
	case domain.ScenarioGaming:
		return "Layout: Immersive setup. Furniture: Gaming desk with multiple monitors, RGB lighting, ergonomic racing chair, acoustic panels. Atmosphere: Neon accents, dark room, high tech."
	default:
		return "Layout: Open concept, central seating area. Furniture: Comfortable sofa facing the focal point, coffee table in center. Atmosphere: Daily use, family friendly, balanced lighting."
	}
}

// StyleLabel is the human readable name of a style.
func StyleLabel(s domain.Style) string {
	switch s {
	case domain.StyleIndustrial:
		return "Industrial"
	case domain.StyleScandinavian:
		return "Scandinavian"
	case domain.StyleBohemian:
		return "Bohemian"
	case domain.StyleArtDeco:
		return "Art Deco"
	case domain.StyleMinimalist:
		return "Minimalist"
	case domain.StyleTraditional:
		return "Traditional"
	case domain.StyleRustic:
		return "Rustic"
	default:
		return "Modern"
	}
}
