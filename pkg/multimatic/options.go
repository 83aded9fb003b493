package multimatic

import (
	"time"

	"github.com/google/uuid"
)

// ClientOptions contains configurable options for a multiMATIC Client.
type ClientOptions struct {
	BaseUrl      string
	Username     string
	Password     string
	SmartphoneId string
	// Serial number of the facility, the first facility of the account is
	// used when empty.
	Serial  string
	Timeout time.Duration
}

// NewClientOptions will create a new ClientOptions type with some default
// values.
//
//	BaseUrl: https://smart.vaillant.com/mobile/api/v4
//	SmartphoneId: random uuid
//	Timeout: 30 seconds
func NewClientOptions() *ClientOptions {
	return &ClientOptions{
		BaseUrl:      DefaultBaseUrl,
		SmartphoneId: uuid.New().String(),
		Timeout:      30 * time.Second,
	}
}

// SetBaseUrl will set the root url of the API.
func (o *ClientOptions) SetBaseUrl(baseUrl string) *ClientOptions {
	if baseUrl != "" {
		o.BaseUrl = baseUrl
	}
	return o
}

// SetUsername will set the username of the multiMATIC account.
func (o *ClientOptions) SetUsername(u string) *ClientOptions {
	o.Username = u
	return o
}

// SetPassword will set the password of the multiMATIC account.
func (o *ClientOptions) SetPassword(p string) *ClientOptions {
	o.Password = p
	return o
}

// SetSmartphoneId will set the identifier the client registers with. Keeping
// the same id between runs avoids piling up sessions on the account.
func (o *ClientOptions) SetSmartphoneId(id string) *ClientOptions {
	if id != "" {
		o.SmartphoneId = id
	}
	return o
}

func (o *ClientOptions) SetSerial(serial string) *ClientOptions {
	o.Serial = serial
	return o
}

func (o *ClientOptions) SetTimeout(timeout time.Duration) *ClientOptions {
	o.Timeout = timeout
	return o
}
