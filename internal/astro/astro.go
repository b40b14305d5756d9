// Package astro computes solar, lunar and target geometry for a fixed
// observer. It is a pure function of (time, site, optional target): no I/O
// and no retained state, so the scoring pipeline stays deterministic.
package astro

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/moonillum"
	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/nutation"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/meeus/v3/solar"
	"github.com/soniakeys/unit"
)

// Observer is a fixed observing site.
type Observer struct {
	LatDeg  float64 // geographic latitude, degrees north
	LonDeg  float64 // geographic longitude, degrees east
	ElevM   float64
}

// Body is the horizontal position of one body at an instant.
type Body struct {
	AltDeg float64
	AzDeg  float64
}

// Sample is the full geometry at one instant.
type Sample struct {
	Sun  Body
	Moon Body

	// MoonPhaseFrac is the illuminated fraction of the lunar disc, 0..1.
	MoonPhaseFrac float64

	// Target is nil unless the observer was given fixed target coordinates.
	Target *Body

	// MoonTargetSepDeg is the angular separation between the moon and the
	// target; nil without a target.
	MoonTargetSepDeg *float64
}

// Compute evaluates the geometry at t. targetRA/targetDec are J2000 degrees;
// pass nil for no target.
func (o Observer) Compute(t time.Time, targetRADeg, targetDecDeg *float64) Sample {
	jd := julian.TimeToJD(t.UTC())
	T := base.J2000Century(jd)

	// Meeus uses longitude positive west.
	lonWest := unit.AngleFromDeg(-o.LonDeg)
	lat := unit.AngleFromDeg(o.LatDeg)
	st := sidereal.Apparent(jd)

	ε := nutation.MeanObliquity(jd)
	sε, cε := ε.Sincos()

	// Sun
	sunRA, sunDec := solar.ApparentEquatorial(jd)
	sunAlt, sunAz := altAz(sunRA.Rad(), sunDec.Rad(), lat.Rad(), lonWest.Rad(), st.Rad())

	// Moon
	λm, βm, _ := moonposition.Position(jd)
	moonRA, moonDec := eclToEq(λm.Rad(), βm.Rad(), sε, cε)
	moonAlt, moonAz := altAz(moonRA, moonDec, lat.Rad(), lonWest.Rad(), st.Rad())

	λ0 := solar.ApparentLongitude(T)
	phaseAngle := moonillum.PhaseAngleEcl2(λm, βm, λ0)
	frac := base.Illuminated(phaseAngle)

	s := Sample{
		Sun:           Body{AltDeg: deg(sunAlt), AzDeg: deg(sunAz)},
		Moon:          Body{AltDeg: deg(moonAlt), AzDeg: deg(moonAz)},
		MoonPhaseFrac: frac,
	}

	if targetRADeg != nil && targetDecDeg != nil {
		tRA := rad(*targetRADeg)
		tDec := rad(*targetDecDeg)
		tAlt, tAz := altAz(tRA, tDec, lat.Rad(), lonWest.Rad(), st.Rad())
		s.Target = &Body{AltDeg: deg(tAlt), AzDeg: deg(tAz)}

		sep := deg(separation(moonRA, moonDec, tRA, tDec))
		s.MoonTargetSepDeg = &sep
	}

	return s
}

// SunAltDeg is a cheaper call for the dark-window predicate, which needs
// only the solar altitude.
func (o Observer) SunAltDeg(t time.Time) float64 {
	jd := julian.TimeToJD(t.UTC())
	st := sidereal.Apparent(jd)
	sunRA, sunDec := solar.ApparentEquatorial(jd)
	alt, _ := altAz(sunRA.Rad(), sunDec.Rad(), rad(o.LatDeg), rad(-o.LonDeg), st.Rad())
	return deg(alt)
}

func rad(d float64) float64 { return d * math.Pi / 180 }
func deg(r float64) float64 { return r * 180 / math.Pi }

// altAz converts equatorial coordinates to horizontal altitude and azimuth
// (radians). lonWest is the geographic longitude positive westward, st the
// apparent Greenwich sidereal time.
func altAz(ra, dec, lat, lonWest, st float64) (alt, az float64) {
	H := st - lonWest - ra
	sH, cH := math.Sincos(H)
	sφ, cφ := math.Sincos(lat)
	sδ, cδ := math.Sincos(dec)
	alt = math.Asin(sφ*sδ + cφ*cδ*cH)
	az = math.Atan2(sH, cH*sφ-sδ/cδ*cφ)
	return alt, az
}

// eclToEq converts ecliptic longitude/latitude (radians) to right ascension
// and declination given the sine and cosine of the obliquity.
func eclToEq(λ, β, sε, cε float64) (ra, dec float64) {
	sλ, cλ := math.Sincos(λ)
	sβ, cβ := math.Sincos(β)
	ra = math.Atan2(sλ*cε-(sβ/cβ)*sε, cλ)
	dec = math.Asin(sβ*cε + cβ*sε*sλ)
	return ra, dec
}

// separation is the angular distance between two equatorial positions
// (radians), by the spherical law of cosines.
func separation(ra1, dec1, ra2, dec2 float64) float64 {
	c := math.Sin(dec1)*math.Sin(dec2) + math.Cos(dec1)*math.Cos(dec2)*math.Cos(ra1-ra2)
	if c > 1 {
		c = 1
	} else if c < -1 {
		c = -1
	}
	return math.Acos(c)
}
