package multimatic

import (
	"path"
	"strconv"
)

const (
	DefaultBaseUrl string = "https://smart.vaillant.com/mobile/api/v4"

	newTokenPath     string = "/account/authentication/v1/token/new"
	authenticatePath string = "/account/authentication/v1/authenticate"
	logoutPath       string = "/account/authentication/v1/logout"
	facilitiesPath   string = "/facilities"
)

// Endpoint names, used by the dump tool as file names.
const (
	EndpointSystem        string = "system"
	EndpointRooms         string = "rooms"
	EndpointLiveReport    string = "live_report"
	EndpointHvac          string = "hvac"
	EndpointGatewayType   string = "gateway_type"
	EndpointEmfReport     string = "emf_report"
	EndpointPhotovoltaics string = "photovoltaics"
)

func facilityPath(serial string, elements ...string) string {
	return path.Join(append([]string{facilitiesPath, serial}, elements...)...)
}

func gatewayTypePath(serial string) string {
	return facilityPath(serial, "public/v1/gatewayType")
}

func hvacPath(serial string) string {
	return facilityPath(serial, "hvacstate/v1/overview")
}

func liveReportPath(serial string) string {
	return facilityPath(serial, "livereport/v1")
}

func systemPath(serial string) string {
	return facilityPath(serial, "systemcontrol/v1")
}

func systemStatusPath(serial string) string {
	return facilityPath(serial, "systemcontrol/v1/status")
}

func roomsPath(serial string) string {
	return facilityPath(serial, "rbr/v1/rooms")
}

func roomPath(serial string, id int) string {
	return facilityPath(serial, "rbr/v1/rooms", strconv.Itoa(id))
}

func hotWaterPath(serial string, id string) string {
	return facilityPath(serial, "systemcontrol/v1/dhw", id, "hotwater")
}

func circulationPath(serial string, id string) string {
	return facilityPath(serial, "systemcontrol/v1/dhw", id, "circulation")
}

func zonePath(serial string, id string) string {
	return facilityPath(serial, "systemcontrol/v1/zones", id)
}

func ventilationPath(serial string, id string) string {
	return facilityPath(serial, "systemcontrol/v1/ventilation", id)
}

func emfReportPath(serial string) string {
	return facilityPath(serial, "emf/v1/devices")
}

func photovoltaicsPath(serial string) string {
	return facilityPath(serial, "spine/v1/currentPVMeteringInfo")
}
