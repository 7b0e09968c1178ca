// internal/event/names.go
package event

// Event name vocabulary.
// These names are the contract with framework consumers and MUST NOT
// be configurable.

// TemperatureChanged carries (value float64, withinLimits bool).
const TemperatureChanged = "temperatureChanged"

// HumidityChanged carries (value float64, withinLimits bool).
const HumidityChanged = "humidityChanged"

// StatusChanged carries (status string, message string).
const StatusChanged = "statusChanged"

// DetectorModeChanged carries (roiModeIndex int).
const DetectorModeChanged = "detectorModeChanged"

// ExpTimeLimitsChanged carries (min float64, max float64).
const ExpTimeLimitsChanged = "expTimeLimitsChanged"

// FrameRateChanged carries (value float64).
const FrameRateChanged = "frameRateChanged"

// ---- STATUS MESSAGE TEXTS ----

// Message fragments composed by the detector adapter, in fixed
// priority order: temperature, humidity, calibrating, not ready.

const MsgTemperatureExceeded = "Detector temperature has exceeded threshold.\n"

const MsgHumidityExceeded = "Detector humidity has exceeded threshold.\n"

const MsgCalibrating = "Energy change in progress.\nPlease wait...\n"

const MsgNotReady = "Detector is not ready.\nCannot start a collection at the moment."

// ---- RAW DEVICE STATUS STRINGS ----

// StatusReady is the raw device status meaning collection may start.
const StatusReady = "ready"

// StatusCalibrating is the raw device status during an energy change.
const StatusCalibrating = "calibrating"

// StatusUninitialized is reported before the status channel delivered
// a first value.
const StatusUninitialized = "uninitialized"
