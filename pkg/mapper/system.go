package mapper

import (
	"github.com/gaetancollaud/multimatic-mqtt/pkg/model"
)

type rawFacility struct {
	SerialNumber       string `mapstructure:"serialNumber"`
	Name               string `mapstructure:"name"`
	FirmwareVersion    string `mapstructure:"firmwareVersion"`
	NetworkInformation struct {
		MacAddressEthernet        string `mapstructure:"macAddressEthernet"`
		MacAddressWifiAccessPoint string `mapstructure:"macAddressWifiAccessPoint"`
		MacAddressWifiClient      string `mapstructure:"macAddressWifiClient"`
	} `mapstructure:"networkInformation"`
}

type rawHvacMeta struct {
	OnlineStatus struct {
		Status string `mapstructure:"status"`
	} `mapstructure:"onlineStatus"`
	FirmwareUpdateStatus struct {
		Status string `mapstructure:"status"`
	} `mapstructure:"firmwareUpdateStatus"`
}

// MapSerialNumber returns the serial number of the first facility, empty
// when the account has no facility.
func MapSerialNumber(facilities Document) string {
	facility, err := findFacility(facilities, "")
	if err != nil || facility == nil {
		return ""
	}
	return facility.SerialNumber
}

// MapSystemInfo gathers the identity of the facility with the given serial
// number (the first facility when serial is empty), the gateway type and the
// online and firmware update status. It returns nil when no facility
// matches.
func MapSystemInfo(facilities Document, gateway Document, hvac Document, serial string) (*model.SystemInfo, error) {
	facility, err := findFacility(facilities, serial)
	if err != nil || facility == nil {
		return nil, err
	}

	gatewayType, err := decode[string]("gateway", lookup(gateway, "body", "gatewayType"))
	if err != nil {
		return nil, err
	}
	meta, err := decode[rawHvacMeta]("hvac state", lookup(hvac, "meta"))
	if err != nil {
		return nil, err
	}

	return &model.SystemInfo{
		Gateway:       *gatewayType,
		SerialNumber:  facility.SerialNumber,
		Name:          facility.Name,
		MacEthernet:   facility.NetworkInformation.MacAddressEthernet,
		MacWifi:       facility.NetworkInformation.MacAddressWifiAccessPoint,
		MacWifiClient: facility.NetworkInformation.MacAddressWifiClient,
		Firmware:      facility.FirmwareVersion,
		Online:        meta.OnlineStatus.Status,
		Update:        meta.FirmwareUpdateStatus.Status,
	}, nil
}

func findFacility(facilities Document, serial string) (*rawFacility, error) {
	for _, item := range lookupList(facilities, "body", "facilitiesList") {
		facility, err := decode[rawFacility]("facility", item)
		if err != nil {
			return nil, err
		}
		if serial == "" || facility.SerialNumber == serial {
			return facility, nil
		}
	}
	return nil, nil
}
