package constants

const MeanFreePath float64 = 3150.     // [A] amorphous ice at 300 keV
const CosineGuard float64 = 1e-10      // keeps 1/cos finite at 90 deg
const MaxThickness float64 = 100000.   // [A] 10 um, clamp for near-grazing tilt
const FWHMToSigma = 2.3548200450309493 // 2 * sqrt(2 * ln 2)

const ElectronRestEnergy float64 = 510998.95 // [eV]
const BetheK float64 = 0.307075e6            // [eV cm^2 mol^-1]
const Angstrom2cm float64 = 1e-8

// amorphous ice
const IceZOverA float64 = 10. / 18.015 // [mol g^-1]
const IceDensity float64 = 0.94        // [g cm^-3]
const IceMeanExcitation float64 = 75.  // [eV]
