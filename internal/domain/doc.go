// Package domain models NASA FIRMS active-fire hotspot detections.
//
// # Data Source
//
// Hotspot records originate from the FIRMS (Fire Information for Resource
// Management System) area CSV API at
// https://firms.modaps.eosdis.nasa.gov/api/area/csv. Each row is one
// satellite detection with a longitude/latitude pair, an acquisition date
// and time, a detector confidence value, and one or more radiometric
// intensity columns depending on the instrument.
//
// # FIRMS Data Conventions
//
// Confidence encoding (varies by instrument):
//
//	VIIRS instruments use single-letter codes:
//	  "l" → low, "n" → nominal, "h" → high (case-insensitive).
//	  Anything else is unclassified and excluded from confidence counts.
//	MODIS instruments use a 0–100 integer:
//	  ≤ 40 → low, 40 < v ≤ 70 → nominal, > 70 → high.
//	  Unparseable values are excluded.
//	A batch uses exactly one encoding; it is detected once when the batch
//	is built and carried on the batch, so per-record type inspection is
//	never repeated downstream.
//
// Intensity columns (first present wins, in this order):
//
//	frp        — fire radiative power in megawatts (VIIRS and MODIS)
//	bright_ti4 — I-4 channel brightness temperature in Kelvin (VIIRS)
//	brightness — channel 21/22 brightness temperature in Kelvin (MODIS)
//
// Acquisition time:
//
//	HHMM in 24-hour UTC notation, e.g. "0345" = 03:45. Values may be
//	shortened ("17" = hour 17). Combined with acq_date (YYYY-MM-DD) for
//	point-in-time weather correlation; see [NormalizeHour].
//
// Coordinates:
//
//	Longitude ∈ [-180, 180], latitude ∈ [-90, 90]. Rows whose coordinates
//	fail to parse or fall outside these ranges are dropped during batch
//	construction — a bad row never fails the whole batch.
package domain
