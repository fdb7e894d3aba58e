// Package device defines the common interface implemented by all Primoria
// device drivers and a small registry used to initialize them in a fixed
// order at boot.
package device

import "primoria/kernel"

// Driver is an interface implemented by all drivers.
type Driver interface {
	// DriverName returns the name of the driver.
	DriverName() string

	// DriverVersion returns the driver version.
	DriverVersion() (major uint16, minor uint16, patch uint16)

	// DriverInit initializes the device driver.
	DriverInit() *kernel.Error
}

// DetectOrder specifies the relative order in which a driver should be
// initialized during boot. Lower values run first.
type DetectOrder uint8

const (
	// DetectOrderEarly is reserved for drivers that must be available
	// before any other subsystem runs (e.g. the serial debug sink).
	DetectOrderEarly DetectOrder = iota

	// DetectOrderBeforeACPI runs after the early drivers but before any
	// ACPI-dependent probing.
	DetectOrderBeforeACPI

	// DetectOrderACPI is used by drivers that rely on ACPI tables.
	DetectOrderACPI

	// DetectOrderLast runs after all other drivers have been initialized.
	DetectOrderLast
)

// DriverInfo describes a registered driver and the order in which it should
// be probed/initialized.
type DriverInfo struct {
	// Order controls where this entry is placed when the registry is sorted.
	Order DetectOrder

	// Drv is the driver instance to initialize.
	Drv Driver
}

// DriverInfoList is a sortable list of DriverInfo entries, ordered by Order.
type DriverInfoList []*DriverInfo

func (l DriverInfoList) Len() int           { return len(l) }
func (l DriverInfoList) Less(i, j int) bool { return l[i].Order < l[j].Order }
func (l DriverInfoList) Swap(i, j int)      { l[i], l[j] = l[j], l[i] }

var registeredDrivers DriverInfoList

// RegisterDriver appends info to the list of drivers that will be
// initialized at boot. Drivers call this from an init() block.
func RegisterDriver(info *DriverInfo) {
	registeredDrivers = append(registeredDrivers, info)
}

// DriverList returns the list of registered drivers.
func DriverList() DriverInfoList {
	return registeredDrivers
}
