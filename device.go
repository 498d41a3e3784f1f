// go-cctalk
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-cctalk.
//
// go-cctalk is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-cctalk is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-cctalk; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package cctalk

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"
)

// Number of channels probed by ReadCoinIDs and ReadBillIDs
const identifierChannels = 9

// DeviceConfig contains configuration options for the Device
type DeviceConfig struct {
	// RetryConfig configures caller side retries of whole exchanges
	RetryConfig *RetryConfig
	// ChecksumType selects the frame integrity scheme for requests
	ChecksumType ChecksumType
}

// DefaultDeviceConfig returns default device configuration. Exchanges run
// once; retries are opt-in.
func DefaultDeviceConfig() *DeviceConfig {
	return &DeviceConfig{
		RetryConfig:  NoRetryConfig(),
		ChecksumType: AdditiveChecksum,
	}
}

// CommsRevision is the reply to RequestCommsRevision
type CommsRevision struct {
	Level byte
	Major byte
	Minor byte
}

func (r CommsRevision) String() string {
	return fmt.Sprintf("level %d, ccTalk %d.%d", r.Level, r.Major, r.Minor)
}

// DataStorage is the reply to RequestDataStorageAvailability
type DataStorage struct {
	MemoryType     byte
	ReadBlocks     byte
	ReadBlockSize  byte
	WriteBlocks    byte
	WriteBlockSize byte
}

// Available reports whether the peripheral offers any data storage
func (s DataStorage) Available() bool {
	return s.ReadBlocks != 0 || s.WriteBlocks != 0
}

// Device is a host side driver for one ccTalk peripheral
//
// Thread Safety: Device is NOT thread-safe. ccTalk allows a single
// outstanding request, so drive a Device from one goroutine or protect it
// with external synchronization.
type Device struct {
	transport   Transport
	config      *DeviceConfig
	address     Address
	billCounter byte
}

// New creates a driver for the peripheral at address, talking through
// transport
func New(transport Transport, address Address, opts ...Option) (*Device, error) {
	device := &Device{
		transport: transport,
		address:   address,
		config:    DefaultDeviceConfig(),
	}

	for _, opt := range opts {
		if err := opt(device); err != nil {
			return nil, err
		}
	}

	return device, nil
}

// Address returns the peripheral's bus address
func (d *Device) Address() Address {
	return d.address
}

// Transport returns the underlying transport
func (d *Device) Transport() Transport {
	return d.transport
}

// Close closes the underlying transport
func (d *Device) Close() error {
	if err := d.transport.Close(); err != nil {
		return fmt.Errorf("failed to close transport: %w", err)
	}
	return nil
}

// BillCounter returns the event counter of the last buffered bill reply
func (d *Device) BillCounter() byte {
	return d.billCounter
}

// SetRetryConfig updates the retry configuration
func (d *Device) SetRetryConfig(config *RetryConfig) {
	d.config.RetryConfig = config
}

// SetBillEvent forwards a scripted bill event to the transport
func (d *Device) SetBillEvent(event BillEvent) {
	d.transport.SetBillEvent(event)
}

// NewRequest builds a request from this host to the peripheral
func (d *Device) NewRequest(header HeaderType, data ...byte) *Message {
	return NewMessage(d.address, d.transport.Address(), NewPayload(header, data...), d.config.ChecksumType)
}

// Exchange sends one request and returns the reply payload
func (d *Device) Exchange(header HeaderType, data ...byte) (*Payload, error) {
	return d.ExchangeContext(context.Background(), header, data...)
}

// ExchangeContext sends one request and returns the reply payload,
// retrying per the device's RetryConfig
func (d *Device) ExchangeContext(ctx context.Context, header HeaderType, data ...byte) (*Payload, error) {
	msg := d.NewRequest(header, data...)
	tc := AsTransportContext(d.transport)

	var reply *Payload
	err := RetryWithConfig(ctx, d.config.RetryConfig, func() error {
		var err error
		reply, err = tc.SendAndAwaitReplyContext(ctx, msg)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", header, err)
	}

	debugf("device %d: %s -> % X", d.address, header, reply.Data)
	return reply, nil
}

// Reset resets the peripheral
func (d *Device) Reset() (*Payload, error) {
	return d.Exchange(HeaderResetDevice)
}

// SimplePoll checks that the peripheral answers
func (d *Device) SimplePoll() (*Payload, error) {
	return d.SimplePollContext(context.Background())
}

// SimplePollContext checks that the peripheral answers
func (d *Device) SimplePollContext(ctx context.Context) (*Payload, error) {
	return d.ExchangeContext(ctx, HeaderSimplePoll)
}

// PerformSelfCheck asks the peripheral to run its self check
func (d *Device) PerformSelfCheck() (*Payload, error) {
	return d.Exchange(HeaderPerformSelfcheck)
}

// ModifyInhibitStatus sets the channel enable mask. Bit n enables channel
// n+1.
func (d *Device) ModifyInhibitStatus(enabled uint16) (*Payload, error) {
	var data [2]byte
	binary.LittleEndian.PutUint16(data[:], enabled)
	return d.Exchange(HeaderModifyInhibitStatus, data[:]...)
}

// RequestInhibitStatus returns the channel enable mask
func (d *Device) RequestInhibitStatus() (uint16, error) {
	reply, err := d.Exchange(HeaderRequestInhibitStatus)
	if err != nil {
		return 0, err
	}
	if len(reply.Data) < 2 {
		return 0, fmt.Errorf("%w: inhibit status needs 2 bytes, got %d", ErrParse, len(reply.Data))
	}
	return binary.LittleEndian.Uint16(reply.Data), nil
}

// ModifyMasterInhibitStatus sets the master inhibit. On the wire 0 means
// inhibited and 1 means accepting.
func (d *Device) ModifyMasterInhibitStatus(inhibited bool) (*Payload, error) {
	var status byte = 1
	if inhibited {
		status = 0
	}
	return d.Exchange(HeaderModifyMasterInhibitStatus, status)
}

// RequestMasterInhibitStatus reports whether the peripheral is inhibited
func (d *Device) RequestMasterInhibitStatus() (bool, error) {
	reply, err := d.Exchange(HeaderRequestMasterInhibitStatus)
	if err != nil {
		return false, err
	}
	if len(reply.Data) < 1 {
		return false, fmt.Errorf("%w: empty master inhibit status", ErrParse)
	}
	return reply.Data[0]&1 == 0, nil
}

// ReadBufferedCredit reads the event counter and credit history
func (d *Device) ReadBufferedCredit() (*CreditBuffer, error) {
	return d.ReadBufferedCreditContext(context.Background())
}

// ReadBufferedCreditContext reads the event counter and credit history
func (d *Device) ReadBufferedCreditContext(ctx context.Context) (*CreditBuffer, error) {
	reply, err := d.ExchangeContext(ctx, HeaderReadBufferedCreditOrErrorCodes)
	if err != nil {
		return nil, err
	}
	return ParseCreditBuffer(reply.Data)
}

// ParseBufferedBillEvent decodes [counter, event, error] from a buffered
// bill events reply
func ParseBufferedBillEvent(reply *Payload) (byte, BillEvent, error) {
	if len(reply.Data) < 3 {
		return 0, BillEvent{}, fmt.Errorf("%w: bill event needs 3 bytes, got %d", ErrParse, len(reply.Data))
	}
	return reply.Data[0], NewBillEvent(reply.Data[1], reply.Data[2]), nil
}

// ReadBufferedBill reads the newest buffered bill event and its counter
func (d *Device) ReadBufferedBill() (byte, BillEvent, error) {
	reply, err := d.Exchange(HeaderReadBufferedBillEvents)
	if err != nil {
		return 0, BillEvent{}, err
	}
	counter, event, err := ParseBufferedBillEvent(reply)
	if err != nil {
		return 0, BillEvent{}, err
	}
	d.billCounter = counter
	return counter, event, nil
}

// ModifyBillOperatingMode sets the bill validator operating mode bits
func (d *Device) ModifyBillOperatingMode(mode byte) (*Payload, error) {
	return d.Exchange(HeaderModifyBillOperatingMode, mode)
}

// RouteBill sends or returns the bill held in escrow
func (d *Device) RouteBill(route byte) (*Payload, error) {
	return d.Exchange(HeaderRouteBill, route)
}

// RequestCountryScalingFactor returns the raw scaling factor reply
func (d *Device) RequestCountryScalingFactor(country ...byte) (*Payload, error) {
	return d.Exchange(HeaderRequestCountryScalingFactor, country...)
}

func (d *Device) requestText(header HeaderType, data ...byte) (string, error) {
	reply, err := d.Exchange(header, data...)
	if err != nil {
		return "", err
	}
	text, err := reply.Text()
	if err != nil {
		return "", fmt.Errorf("%s: %w", header, err)
	}
	return text, nil
}

// RequestEquipmentCategory returns the equipment category, such as
// "Coin Acceptor"
func (d *Device) RequestEquipmentCategory() (string, error) {
	return d.requestText(HeaderRequestEquipmentCategoryID)
}

// RequestManufacturerID returns the manufacturer identifier
func (d *Device) RequestManufacturerID() (string, error) {
	return d.requestText(HeaderRequestManufacturerID)
}

// RequestProductCode returns the product code
func (d *Device) RequestProductCode() (string, error) {
	return d.requestText(HeaderRequestProductCode)
}

// RequestBuildCode returns the build code
func (d *Device) RequestBuildCode() (string, error) {
	return d.requestText(HeaderRequestBuildCode)
}

// RequestSoftwareRevision returns the software revision
func (d *Device) RequestSoftwareRevision() (string, error) {
	return d.requestText(HeaderRequestSoftwareRevision)
}

// RequestSerialNumber returns the serial number, sent least significant
// byte first
func (d *Device) RequestSerialNumber() (uint32, error) {
	reply, err := d.Exchange(HeaderRequestSerialNumber)
	if err != nil {
		return 0, err
	}
	if len(reply.Data) < 3 {
		return 0, fmt.Errorf("%w: serial number needs 3 bytes, got %d", ErrParse, len(reply.Data))
	}
	return uint32(reply.Data[0]) | uint32(reply.Data[1])<<8 | uint32(reply.Data[2])<<16, nil
}

// RequestCommsRevision returns the implemented ccTalk revision
func (d *Device) RequestCommsRevision() (CommsRevision, error) {
	reply, err := d.Exchange(HeaderRequestCommsRevision)
	if err != nil {
		return CommsRevision{}, err
	}
	if len(reply.Data) < 3 {
		return CommsRevision{}, fmt.Errorf("%w: comms revision needs 3 bytes, got %d", ErrParse, len(reply.Data))
	}
	return CommsRevision{Level: reply.Data[0], Major: reply.Data[1], Minor: reply.Data[2]}, nil
}

// RequestCoinID returns the coin identifier of a 1-based channel
func (d *Device) RequestCoinID(channel byte) (string, error) {
	return d.requestText(HeaderRequestCoinID, channel)
}

// RequestBillID returns the bill identifier of a 1-based channel
func (d *Device) RequestBillID(channel byte) (string, error) {
	return d.requestText(HeaderRequestBillID, channel)
}

// RequestSorterPath returns the sort path of a 1-based channel
func (d *Device) RequestSorterPath(channel byte) (byte, error) {
	reply, err := d.Exchange(HeaderRequestSorterPaths, channel)
	if err != nil {
		return 0, err
	}
	if len(reply.Data) < 1 {
		return 0, fmt.Errorf("%w: empty sorter path reply", ErrParse)
	}
	return reply.Data[0], nil
}

// RequestPollingPriority returns the polling interval the peripheral asks
// for. Zero means the peripheral does not say.
func (d *Device) RequestPollingPriority() (time.Duration, error) {
	return d.RequestPollingPriorityContext(context.Background())
}

// RequestPollingPriorityContext returns the polling interval the
// peripheral asks for
func (d *Device) RequestPollingPriorityContext(ctx context.Context) (time.Duration, error) {
	reply, err := d.ExchangeContext(ctx, HeaderRequestPollingPriority)
	if err != nil {
		return 0, err
	}
	if len(reply.Data) < 2 {
		return 0, fmt.Errorf("%w: polling priority needs 2 bytes, got %d", ErrParse, len(reply.Data))
	}
	return PollingInterval(reply.Data[0], reply.Data[1]), nil
}

// PollingInterval converts a polling priority unit and count to a
// duration. Unit 0 and 255 carry no fixed interval.
func PollingInterval(unit, count byte) time.Duration {
	var base time.Duration
	switch unit {
	case 1:
		base = time.Millisecond
	case 2:
		base = 10 * time.Millisecond
	case 3:
		base = time.Second
	case 4:
		base = time.Minute
	case 5:
		base = time.Hour
	case 6:
		base = 24 * time.Hour
	case 7:
		base = 7 * 24 * time.Hour
	case 8:
		base = 30 * 24 * time.Hour
	case 9:
		base = 365 * 24 * time.Hour
	default:
		return 0
	}
	return base * time.Duration(count)
}

// RequestDatabaseVersion returns the coin database version, 0 when remote
// programming is not supported
func (d *Device) RequestDatabaseVersion() (byte, error) {
	reply, err := d.Exchange(HeaderRequestDatabaseVersion)
	if err != nil {
		return 0, err
	}
	if len(reply.Data) < 1 {
		return 0, fmt.Errorf("%w: empty database version reply", ErrParse)
	}
	return reply.Data[0], nil
}

// RequestDataStorageAvailability describes the peripheral's user memory
func (d *Device) RequestDataStorageAvailability() (DataStorage, error) {
	reply, err := d.Exchange(HeaderRequestDataStorageAvailability)
	if err != nil {
		return DataStorage{}, err
	}
	if len(reply.Data) < 5 {
		return DataStorage{}, fmt.Errorf("%w: data storage needs 5 bytes, got %d", ErrParse, len(reply.Data))
	}
	return DataStorage{
		MemoryType:     reply.Data[0],
		ReadBlocks:     reply.Data[1],
		ReadBlockSize:  reply.Data[2],
		WriteBlocks:    reply.Data[3],
		WriteBlockSize: reply.Data[4],
	}, nil
}

// ReadCoinIDs requests the coin identifiers of channels 1 to 9. A failing
// channel is logged and skipped.
func (d *Device) ReadCoinIDs() map[byte]string {
	return d.readIdentifiers("coin", d.RequestCoinID)
}

// ReadBillIDs requests the bill identifiers of channels 1 to 9. A failing
// channel is logged and skipped.
func (d *Device) ReadBillIDs() map[byte]string {
	return d.readIdentifiers("bill", d.RequestBillID)
}

func (d *Device) readIdentifiers(kind string, request func(byte) (string, error)) map[byte]string {
	ids := make(map[byte]string, identifierChannels)
	for channel := byte(1); channel <= identifierChannels; channel++ {
		id, err := request(channel)
		if err != nil {
			Logger().Error("identifier request failed", "kind", kind, "channel", channel, "error", err)
			continue
		}
		debugf("%s id %d: %s", kind, channel, id)
		ids[channel] = id
	}
	return ids
}
