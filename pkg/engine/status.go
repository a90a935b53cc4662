package engine

import "strconv"

// StatusCode identifies why an engine call failed. Non-negative values
// are CTAP2 status codes as reported by the authenticator; negative
// values are produced by the engine itself and can never collide with a
// device-reported byte.
type StatusCode int

const (
	StatusOK                   StatusCode = 0x00
	StatusInvalidCommand       StatusCode = 0x01
	StatusInvalidParameter     StatusCode = 0x02
	StatusInvalidLength        StatusCode = 0x03
	StatusTimeout              StatusCode = 0x05
	StatusChannelBusy          StatusCode = 0x06
	StatusInvalidCBOR          StatusCode = 0x12
	StatusMissingParameter     StatusCode = 0x14
	StatusInvalidCredential    StatusCode = 0x22
	StatusUnsupportedAlgorithm StatusCode = 0x26
	StatusOperationDenied      StatusCode = 0x27
	StatusUnsupportedOption    StatusCode = 0x2B
	StatusInvalidOption        StatusCode = 0x2C
	StatusNoCredentials        StatusCode = 0x2E
	StatusUserActionTimeout    StatusCode = 0x2F
	StatusNotAllowed           StatusCode = 0x30
	StatusPINInvalid           StatusCode = 0x31
	StatusPINBlocked           StatusCode = 0x32
	StatusPINNotSet            StatusCode = 0x35
	StatusUPRequired           StatusCode = 0x3B
	StatusUVInvalid            StatusCode = 0x3F
)

const (
	StatusTxFailure        StatusCode = -1
	StatusRxFailure        StatusCode = -2
	StatusInvalidArgument  StatusCode = -3
	StatusInvalidSignature StatusCode = -4
	StatusNotFound         StatusCode = -5
	StatusInternal         StatusCode = -6
)

var statusNames = map[StatusCode]string{
	StatusOK:                   "CTAP2_OK",
	StatusInvalidCommand:       "CTAP1_ERR_INVALID_COMMAND",
	StatusInvalidParameter:     "CTAP1_ERR_INVALID_PARAMETER",
	StatusInvalidLength:        "CTAP1_ERR_INVALID_LENGTH",
	StatusTimeout:              "CTAP1_ERR_TIMEOUT",
	StatusChannelBusy:          "CTAP1_ERR_CHANNEL_BUSY",
	StatusInvalidCBOR:          "CTAP2_ERR_INVALID_CBOR",
	StatusMissingParameter:     "CTAP2_ERR_MISSING_PARAMETER",
	StatusInvalidCredential:    "CTAP2_ERR_INVALID_CREDENTIAL",
	StatusUnsupportedAlgorithm: "CTAP2_ERR_UNSUPPORTED_ALGORITHM",
	StatusOperationDenied:      "CTAP2_ERR_OPERATION_DENIED",
	StatusUnsupportedOption:    "CTAP2_ERR_UNSUPPORTED_OPTION",
	StatusInvalidOption:        "CTAP2_ERR_INVALID_OPTION",
	StatusNoCredentials:        "CTAP2_ERR_NO_CREDENTIALS",
	StatusUserActionTimeout:    "CTAP2_ERR_USER_ACTION_TIMEOUT",
	StatusNotAllowed:           "CTAP2_ERR_NOT_ALLOWED",
	StatusPINInvalid:           "CTAP2_ERR_PIN_INVALID",
	StatusPINBlocked:           "CTAP2_ERR_PIN_BLOCKED",
	StatusPINNotSet:            "CTAP2_ERR_PIN_NOT_SET",
	StatusUPRequired:           "CTAP2_ERR_UP_REQUIRED",
	StatusUVInvalid:            "CTAP2_ERR_UV_INVALID",
	StatusTxFailure:            "ERR_TX",
	StatusRxFailure:            "ERR_RX",
	StatusInvalidArgument:      "ERR_INVALID_ARGUMENT",
	StatusInvalidSignature:     "ERR_INVALID_SIG",
	StatusNotFound:             "ERR_NOT_FOUND",
	StatusInternal:             "ERR_INTERNAL",
}

func (c StatusCode) String() string {
	if name, ok := statusNames[c]; ok {
		return name
	}
	return "StatusCode(" + strconv.Itoa(int(c)) + ")"
}
