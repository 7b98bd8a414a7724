package monitor

import (
	"fmt"
	"strconv"
	"time"
)

// Color is the semantic colour of the badge. Shells map it to pixels or
// terminal colours.
type Color string

const (
	ColorGray   Color = "gray"
	ColorGreen  Color = "green"
	ColorYellow Color = "yellow"
	ColorOrange Color = "orange"
	ColorRed    Color = "red"
)

const (
	DefaultMarker  = "X"
	PendingGlyph   = "..."
	PendingTooltip = "Checking connection..."
	NoResponse     = "No response"
)

// Presentation is what the badge should show for a tier
type Presentation struct {
	Glyph   string
	Tooltip string
	Color   Color
}

// Renderer decides glyph, tooltip and colour for a tier
type Renderer struct {
	// Marker replaces the glyph when unreachable.
	Marker string
	// ShowCause appends the failure cause to the unreachable tooltip.
	ShowCause bool
}

// Render maps a tier and latency onto a presentation using the default marker
func Render(tier Tier, latency time.Duration) Presentation {
	return Renderer{}.Render(tier, latency, "")
}

// Render maps a tier and latency onto a presentation. cause is only used
// for the unreachable tier when ShowCause is set.
func (r Renderer) Render(tier Tier, latency time.Duration, cause string) Presentation {
	switch tier {
	case TierUnreachable:
		marker := r.Marker
		if marker == "" {
			marker = DefaultMarker
		}
		tooltip := NoResponse
		if r.ShowCause && cause != "" {
			tooltip = fmt.Sprintf("%s (%s)", NoResponse, cause)
		}
		return Presentation{Glyph: marker, Tooltip: tooltip, Color: ColorRed}
	case TierGood, TierModerate, TierSlow:
		ms := Milliseconds(latency)
		return Presentation{
			Glyph:   strconv.FormatInt(ms, 10),
			Tooltip: fmt.Sprintf("%d ms", ms),
			Color:   tierColor(tier),
		}
	default:
		return Presentation{Glyph: PendingGlyph, Tooltip: PendingTooltip, Color: ColorGray}
	}
}

// Milliseconds rounds a latency to whole milliseconds
func Milliseconds(d time.Duration) int64 {
	return d.Round(time.Millisecond).Milliseconds()
}

func tierColor(tier Tier) Color {
	switch tier {
	case TierGood:
		return ColorGreen
	case TierModerate:
		return ColorYellow
	case TierSlow:
		return ColorOrange
	case TierUnreachable:
		return ColorRed
	default:
		return ColorGray
	}
}
