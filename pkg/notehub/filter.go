package notehub

import (
	"net/url"
	"strconv"
)

// DeviceFilter narrows a device listing. Zero-valued fields are omitted from
// the request.
type DeviceFilter struct {
	FleetUID  string
	Tags      []string
	DeviceUID string
	PageSize  int
	PageNum   int
}

func (f DeviceFilter) values() url.Values {
	v := url.Values{}
	setString(v, "fleetUID", f.FleetUID)
	setStrings(v, "tag", f.Tags)
	setString(v, "deviceUID", f.DeviceUID)
	setInt(v, "pageSize", f.PageSize)
	setInt(v, "pageNum", f.PageNum)
	return v
}

// EventFilter narrows an event listing. Zero-valued fields are omitted from
// the request; the server applies its own defaults for pagination.
type EventFilter struct {
	DeviceUIDs       []string
	SerialNumbers    []string
	PageSize         int
	PageNum          int
	NotecardFirmware []string
	Locations        []string
	HostFirmware     []string
	HostNames        []string
	ProductUIDs      []string
	SKUs             []string
	FleetUID         string
	Files            string
	SelectFields     string
}

func (f EventFilter) values() url.Values {
	v := url.Values{}
	setStrings(v, "deviceUID", f.DeviceUIDs)
	setStrings(v, "serialNumber", f.SerialNumbers)
	setInt(v, "pageSize", f.PageSize)
	setInt(v, "pageNum", f.PageNum)
	setStrings(v, "notecardFirmware", f.NotecardFirmware)
	setStrings(v, "location", f.Locations)
	setStrings(v, "hostFirmware", f.HostFirmware)
	setStrings(v, "hostName", f.HostNames)
	setStrings(v, "productUID", f.ProductUIDs)
	setStrings(v, "sku", f.SKUs)
	setString(v, "fleetUID", f.FleetUID)
	setString(v, "files", f.Files)
	setString(v, "selectFields", f.SelectFields)
	return v
}

func setString(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

func setStrings(v url.Values, key string, values []string) {
	for _, value := range values {
		if value != "" {
			v.Add(key, value)
		}
	}
}

func setInt(v url.Values, key string, value int) {
	if value > 0 {
		v.Set(key, strconv.Itoa(value))
	}
}
