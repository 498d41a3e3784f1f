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

import "fmt"

// HeaderType is a ccTalk command header. Every byte value is a valid
// HeaderType: codes without a name in the command table still round-trip
// unchanged and report themselves as unknown.
type HeaderType byte

// Command headers. Reply (0) is the generic response header used by
// peripherals for every answer.
const (
	HeaderFactorySetup                      HeaderType = 255
	HeaderSimplePoll                        HeaderType = 254
	HeaderAddressPoll                       HeaderType = 253
	HeaderAddressClash                      HeaderType = 252
	HeaderAddressChange                     HeaderType = 251
	HeaderAddressRandom                     HeaderType = 250
	HeaderRequestPollingPriority            HeaderType = 249
	HeaderRequestStatus                     HeaderType = 248
	HeaderRequestVariableSet                HeaderType = 247
	HeaderRequestManufacturerID             HeaderType = 246
	HeaderRequestEquipmentCategoryID        HeaderType = 245
	HeaderRequestProductCode                HeaderType = 244
	HeaderRequestDatabaseVersion            HeaderType = 243
	HeaderRequestSerialNumber               HeaderType = 242
	HeaderRequestSoftwareRevision           HeaderType = 241
	HeaderTestSolenoids                     HeaderType = 240
	HeaderOperateMotors                     HeaderType = 239
	HeaderTestOutputLines                   HeaderType = 238
	HeaderReadInputLines                    HeaderType = 237
	HeaderReadOptoStates                    HeaderType = 236
	HeaderReadLastCreditOrErrorCode         HeaderType = 235
	HeaderIssueGuardCode                    HeaderType = 234
	HeaderLatchOutputLines                  HeaderType = 233
	HeaderPerformSelfcheck                  HeaderType = 232
	HeaderModifyInhibitStatus               HeaderType = 231
	HeaderRequestInhibitStatus              HeaderType = 230
	HeaderReadBufferedCreditOrErrorCodes    HeaderType = 229
	HeaderModifyMasterInhibitStatus         HeaderType = 228
	HeaderRequestMasterInhibitStatus        HeaderType = 227
	HeaderRequestInsertionCounter           HeaderType = 226
	HeaderRequestAcceptCounter              HeaderType = 225
	HeaderDispenseCoins                     HeaderType = 224
	HeaderDispenseChange                    HeaderType = 223
	HeaderModifySorterOverrideStatus        HeaderType = 222
	HeaderRequestSorterOverrideStatus       HeaderType = 221
	HeaderOneshotCredit                     HeaderType = 220
	HeaderEnterNewPINNumber                 HeaderType = 219
	HeaderEnterPINNumber                    HeaderType = 218
	HeaderRequestPayoutHighLowStatus        HeaderType = 217
	HeaderRequestDataStorageAvailability    HeaderType = 216
	HeaderReadDataBlock                     HeaderType = 215
	HeaderWriteDataBlock                    HeaderType = 214
	HeaderRequestOptionFlags                HeaderType = 213
	HeaderRequestCoinPosition               HeaderType = 212
	HeaderPowerManagementControl            HeaderType = 211
	HeaderModifySorterPaths                 HeaderType = 210
	HeaderRequestSorterPaths                HeaderType = 209
	HeaderModifyPayoutAbsoluteCount         HeaderType = 208
	HeaderRequestPayoutAbsoluteCount        HeaderType = 207
	HeaderEmptyPayout                       HeaderType = 206
	HeaderRequestAuditInformationBlock      HeaderType = 205
	HeaderMeterControl                      HeaderType = 204
	HeaderDisplayControl                    HeaderType = 203
	HeaderTeachModeControl                  HeaderType = 202
	HeaderRequestTeachStatus                HeaderType = 201
	HeaderUploadCoinData                    HeaderType = 200
	HeaderConfigurationToEEPROM             HeaderType = 199
	HeaderCountersToEEPROM                  HeaderType = 198
	HeaderCalculateROMChecksum              HeaderType = 197
	HeaderRequestCreationDate               HeaderType = 196
	HeaderRequestLastModificationDate       HeaderType = 195
	HeaderRequestRejectCounter              HeaderType = 194
	HeaderRequestFraudCounter               HeaderType = 193
	HeaderRequestBuildCode                  HeaderType = 192
	HeaderKeypadControl                     HeaderType = 191
	HeaderRequestPayoutStatus               HeaderType = 190
	HeaderModifyDefaultSorterPath           HeaderType = 189
	HeaderRequestDefaultSorterPath          HeaderType = 188
	HeaderModifyPayoutCapacity              HeaderType = 187
	HeaderRequestPayoutCapacity             HeaderType = 186
	HeaderModifyCoinID                      HeaderType = 185
	HeaderRequestCoinID                     HeaderType = 184
	HeaderUploadWindowData                  HeaderType = 183
	HeaderDownloadCalibrationInfo           HeaderType = 182
	HeaderModifySecuritySetting             HeaderType = 181
	HeaderRequestSecuritySetting            HeaderType = 180
	HeaderModifyBankSelect                  HeaderType = 179
	HeaderRequestBankSelect                 HeaderType = 178
	HeaderHandheldFunction                  HeaderType = 177
	HeaderRequestAlarmCounter               HeaderType = 176
	HeaderModifyPayoutFloat                 HeaderType = 175
	HeaderRequestPayoutFloat                HeaderType = 174
	HeaderRequestThermistorReading          HeaderType = 173
	HeaderEmergencyStop                     HeaderType = 172
	HeaderRequestHopperCoin                 HeaderType = 171
	HeaderRequestBaseYear                   HeaderType = 170
	HeaderRequestAddressMode                HeaderType = 169
	HeaderRequestHopperDispenseCount        HeaderType = 168
	HeaderDispenseHopperCoins               HeaderType = 167
	HeaderRequestHopperStatus               HeaderType = 166
	HeaderModifyVariableSet                 HeaderType = 165
	HeaderEnableHopper                      HeaderType = 164
	HeaderTestHopper                        HeaderType = 163
	HeaderModifyInhibitAndOverrideRegisters HeaderType = 162
	HeaderPumpRNG                           HeaderType = 161
	HeaderRequestCipherKey                  HeaderType = 160
	HeaderReadBufferedBillEvents            HeaderType = 159
	HeaderModifyBillID                      HeaderType = 158
	HeaderRequestBillID                     HeaderType = 157
	HeaderRequestCountryScalingFactor       HeaderType = 156
	HeaderRequestBillPosition               HeaderType = 155
	HeaderRouteBill                         HeaderType = 154
	HeaderModifyBillOperatingMode           HeaderType = 153
	HeaderRequestBillOperatingMode          HeaderType = 152
	HeaderTestLamps                         HeaderType = 151
	HeaderRequestIndividualAcceptCounter    HeaderType = 150
	HeaderRequestIndividualErrorCounter     HeaderType = 149
	HeaderReadOptoVoltages                  HeaderType = 148
	HeaderPerformStackerCycle               HeaderType = 147
	HeaderOperateBidirectionalMotors        HeaderType = 146
	HeaderRequestCurrencyRevision           HeaderType = 145
	HeaderUploadBillTables                  HeaderType = 144
	HeaderBeginBillTableUpgrade             HeaderType = 143
	HeaderFinishBillTableUpgrade            HeaderType = 142
	HeaderRequestFirmwareUpgradeCapability  HeaderType = 141
	HeaderUploadFirmware                    HeaderType = 140
	HeaderBeginFirmwareUpgrade              HeaderType = 139
	HeaderFinishFirmwareUpgrade             HeaderType = 138
	HeaderSwitchEncryptionCode              HeaderType = 137
	HeaderStoreEncryptionCode               HeaderType = 136
	HeaderSetAcceptLimit                    HeaderType = 135
	HeaderDispenseHopperValue               HeaderType = 134
	HeaderRequestHopperPollingValue         HeaderType = 133
	HeaderEmergencyStopValue                HeaderType = 132
	HeaderRequestHopperCoinValue            HeaderType = 131
	HeaderRequestIndexedHopperDispenseCount HeaderType = 130
	HeaderReadBarcodeData                   HeaderType = 129
	HeaderRequestMoneyIn                    HeaderType = 128
	HeaderRequestMoneyOut                   HeaderType = 127
	HeaderClearMoneyCounters                HeaderType = 126
	HeaderPayMoneyOut                       HeaderType = 125
	HeaderVerifyMoneyOut                    HeaderType = 124
	HeaderRequestActivityRegister           HeaderType = 123
	HeaderRequestErrorStatus                HeaderType = 122
	HeaderPurgeHopper                       HeaderType = 121
	HeaderModifyHopperBalance               HeaderType = 120
	HeaderRequestHopperBalance              HeaderType = 119
	HeaderModifyCashboxValue                HeaderType = 118
	HeaderRequestCashboxValue               HeaderType = 117
	HeaderModifyRealTimeClock               HeaderType = 116
	HeaderRequestRealTimeClock              HeaderType = 115
	HeaderRequestUSBID                      HeaderType = 114
	HeaderSwitchBaudRate                    HeaderType = 113
	HeaderReadEncryptedEvents               HeaderType = 112
	HeaderRequestEncryptionSupport          HeaderType = 111
	HeaderSwitchEncryptionKey               HeaderType = 110
	HeaderRequestEncryptedHopperStatus      HeaderType = 109
	HeaderRequestEncryptedMonetaryID        HeaderType = 108
	HeaderRequestCommsRevision              HeaderType = 4
	HeaderClearCommsStatusVariables         HeaderType = 3
	HeaderRequestCommsStatusVariables       HeaderType = 2
	HeaderResetDevice                       HeaderType = 1
	HeaderReply                             HeaderType = 0
)

var headerNames = map[HeaderType]string{
	HeaderFactorySetup:                      "FactorySetup",
	HeaderSimplePoll:                        "SimplePoll",
	HeaderAddressPoll:                       "AddressPoll",
	HeaderAddressClash:                      "AddressClash",
	HeaderAddressChange:                     "AddressChange",
	HeaderAddressRandom:                     "AddressRandom",
	HeaderRequestPollingPriority:            "RequestPollingPriority",
	HeaderRequestStatus:                     "RequestStatus",
	HeaderRequestVariableSet:                "RequestVariableSet",
	HeaderRequestManufacturerID:             "RequestManufacturerID",
	HeaderRequestEquipmentCategoryID:        "RequestEquipmentCategoryID",
	HeaderRequestProductCode:                "RequestProductCode",
	HeaderRequestDatabaseVersion:            "RequestDatabaseVersion",
	HeaderRequestSerialNumber:               "RequestSerialNumber",
	HeaderRequestSoftwareRevision:           "RequestSoftwareRevision",
	HeaderTestSolenoids:                     "TestSolenoids",
	HeaderOperateMotors:                     "OperateMotors",
	HeaderTestOutputLines:                   "TestOutputLines",
	HeaderReadInputLines:                    "ReadInputLines",
	HeaderReadOptoStates:                    "ReadOptoStates",
	HeaderReadLastCreditOrErrorCode:         "ReadLastCreditOrErrorCode",
	HeaderIssueGuardCode:                    "IssueGuardCode",
	HeaderLatchOutputLines:                  "LatchOutputLines",
	HeaderPerformSelfcheck:                  "PerformSelfcheck",
	HeaderModifyInhibitStatus:               "ModifyInhibitStatus",
	HeaderRequestInhibitStatus:              "RequestInhibitStatus",
	HeaderReadBufferedCreditOrErrorCodes:    "ReadBufferedCreditOrErrorCodes",
	HeaderModifyMasterInhibitStatus:         "ModifyMasterInhibitStatus",
	HeaderRequestMasterInhibitStatus:        "RequestMasterInhibitStatus",
	HeaderRequestInsertionCounter:           "RequestInsertionCounter",
	HeaderRequestAcceptCounter:              "RequestAcceptCounter",
	HeaderDispenseCoins:                     "DispenseCoins",
	HeaderDispenseChange:                    "DispenseChange",
	HeaderModifySorterOverrideStatus:        "ModifySorterOverrideStatus",
	HeaderRequestSorterOverrideStatus:       "RequestSorterOverrideStatus",
	HeaderOneshotCredit:                     "OneshotCredit",
	HeaderEnterNewPINNumber:                 "EnterNewPINNumber",
	HeaderEnterPINNumber:                    "EnterPINNumber",
	HeaderRequestPayoutHighLowStatus:        "RequestPayoutHighLowStatus",
	HeaderRequestDataStorageAvailability:    "RequestDataStorageAvailability",
	HeaderReadDataBlock:                     "ReadDataBlock",
	HeaderWriteDataBlock:                    "WriteDataBlock",
	HeaderRequestOptionFlags:                "RequestOptionFlags",
	HeaderRequestCoinPosition:               "RequestCoinPosition",
	HeaderPowerManagementControl:            "PowerManagementControl",
	HeaderModifySorterPaths:                 "ModifySorterPaths",
	HeaderRequestSorterPaths:                "RequestSorterPaths",
	HeaderModifyPayoutAbsoluteCount:         "ModifyPayoutAbsoluteCount",
	HeaderRequestPayoutAbsoluteCount:        "RequestPayoutAbsoluteCount",
	HeaderEmptyPayout:                       "EmptyPayout",
	HeaderRequestAuditInformationBlock:      "RequestAuditInformationBlock",
	HeaderMeterControl:                      "MeterControl",
	HeaderDisplayControl:                    "DisplayControl",
	HeaderTeachModeControl:                  "TeachModeControl",
	HeaderRequestTeachStatus:                "RequestTeachStatus",
	HeaderUploadCoinData:                    "UploadCoinData",
	HeaderConfigurationToEEPROM:             "ConfigurationToEEPROM",
	HeaderCountersToEEPROM:                  "CountersToEEPROM",
	HeaderCalculateROMChecksum:              "CalculateROMChecksum",
	HeaderRequestCreationDate:               "RequestCreationDate",
	HeaderRequestLastModificationDate:       "RequestLastModificationDate",
	HeaderRequestRejectCounter:              "RequestRejectCounter",
	HeaderRequestFraudCounter:               "RequestFraudCounter",
	HeaderRequestBuildCode:                  "RequestBuildCode",
	HeaderKeypadControl:                     "KeypadControl",
	HeaderRequestPayoutStatus:               "RequestPayoutStatus",
	HeaderModifyDefaultSorterPath:           "ModifyDefaultSorterPath",
	HeaderRequestDefaultSorterPath:          "RequestDefaultSorterPath",
	HeaderModifyPayoutCapacity:              "ModifyPayoutCapacity",
	HeaderRequestPayoutCapacity:             "RequestPayoutCapacity",
	HeaderModifyCoinID:                      "ModifyCoinID",
	HeaderRequestCoinID:                     "RequestCoinID",
	HeaderUploadWindowData:                  "UploadWindowData",
	HeaderDownloadCalibrationInfo:           "DownloadCalibrationInfo",
	HeaderModifySecuritySetting:             "ModifySecuritySetting",
	HeaderRequestSecuritySetting:            "RequestSecuritySetting",
	HeaderModifyBankSelect:                  "ModifyBankSelect",
	HeaderRequestBankSelect:                 "RequestBankSelect",
	HeaderHandheldFunction:                  "HandheldFunction",
	HeaderRequestAlarmCounter:               "RequestAlarmCounter",
	HeaderModifyPayoutFloat:                 "ModifyPayoutFloat",
	HeaderRequestPayoutFloat:                "RequestPayoutFloat",
	HeaderRequestThermistorReading:          "RequestThermistorReading",
	HeaderEmergencyStop:                     "EmergencyStop",
	HeaderRequestHopperCoin:                 "RequestHopperCoin",
	HeaderRequestBaseYear:                   "RequestBaseYear",
	HeaderRequestAddressMode:                "RequestAddressMode",
	HeaderRequestHopperDispenseCount:        "RequestHopperDispenseCount",
	HeaderDispenseHopperCoins:               "DispenseHopperCoins",
	HeaderRequestHopperStatus:               "RequestHopperStatus",
	HeaderModifyVariableSet:                 "ModifyVariableSet",
	HeaderEnableHopper:                      "EnableHopper",
	HeaderTestHopper:                        "TestHopper",
	HeaderModifyInhibitAndOverrideRegisters: "ModifyInhibitAndOverrideRegisters",
	HeaderPumpRNG:                           "PumpRNG",
	HeaderRequestCipherKey:                  "RequestCipherKey",
	HeaderReadBufferedBillEvents:            "ReadBufferedBillEvents",
	HeaderModifyBillID:                      "ModifyBillID",
	HeaderRequestBillID:                     "RequestBillID",
	HeaderRequestCountryScalingFactor:       "RequestCountryScalingFactor",
	HeaderRequestBillPosition:               "RequestBillPosition",
	HeaderRouteBill:                         "RouteBill",
	HeaderModifyBillOperatingMode:           "ModifyBillOperatingMode",
	HeaderRequestBillOperatingMode:          "RequestBillOperatingMode",
	HeaderTestLamps:                         "TestLamps",
	HeaderRequestIndividualAcceptCounter:    "RequestIndividualAcceptCounter",
	HeaderRequestIndividualErrorCounter:     "RequestIndividualErrorCounter",
	HeaderReadOptoVoltages:                  "ReadOptoVoltages",
	HeaderPerformStackerCycle:               "PerformStackerCycle",
	HeaderOperateBidirectionalMotors:        "OperateBidirectionalMotors",
	HeaderRequestCurrencyRevision:           "RequestCurrencyRevision",
	HeaderUploadBillTables:                  "UploadBillTables",
	HeaderBeginBillTableUpgrade:             "BeginBillTableUpgrade",
	HeaderFinishBillTableUpgrade:            "FinishBillTableUpgrade",
	HeaderRequestFirmwareUpgradeCapability:  "RequestFirmwareUpgradeCapability",
	HeaderUploadFirmware:                    "UploadFirmware",
	HeaderBeginFirmwareUpgrade:              "BeginFirmwareUpgrade",
	HeaderFinishFirmwareUpgrade:             "FinishFirmwareUpgrade",
	HeaderSwitchEncryptionCode:              "SwitchEncryptionCode",
	HeaderStoreEncryptionCode:               "StoreEncryptionCode",
	HeaderSetAcceptLimit:                    "SetAcceptLimit",
	HeaderDispenseHopperValue:               "DispenseHopperValue",
	HeaderRequestHopperPollingValue:         "RequestHopperPollingValue",
	HeaderEmergencyStopValue:                "EmergencyStopValue",
	HeaderRequestHopperCoinValue:            "RequestHopperCoinValue",
	HeaderRequestIndexedHopperDispenseCount: "RequestIndexedHopperDispenseCount",
	HeaderReadBarcodeData:                   "ReadBarcodeData",
	HeaderRequestMoneyIn:                    "RequestMoneyIn",
	HeaderRequestMoneyOut:                   "RequestMoneyOut",
	HeaderClearMoneyCounters:                "ClearMoneyCounters",
	HeaderPayMoneyOut:                       "PayMoneyOut",
	HeaderVerifyMoneyOut:                    "VerifyMoneyOut",
	HeaderRequestActivityRegister:           "RequestActivityRegister",
	HeaderRequestErrorStatus:                "RequestErrorStatus",
	HeaderPurgeHopper:                       "PurgeHopper",
	HeaderModifyHopperBalance:               "ModifyHopperBalance",
	HeaderRequestHopperBalance:              "RequestHopperBalance",
	HeaderModifyCashboxValue:                "ModifyCashboxValue",
	HeaderRequestCashboxValue:               "RequestCashboxValue",
	HeaderModifyRealTimeClock:               "ModifyRealTimeClock",
	HeaderRequestRealTimeClock:              "RequestRealTimeClock",
	HeaderRequestUSBID:                      "RequestUSBID",
	HeaderSwitchBaudRate:                    "SwitchBaudRate",
	HeaderReadEncryptedEvents:               "ReadEncryptedEvents",
	HeaderRequestEncryptionSupport:          "RequestEncryptionSupport",
	HeaderSwitchEncryptionKey:               "SwitchEncryptionKey",
	HeaderRequestEncryptedHopperStatus:      "RequestEncryptedHopperStatus",
	HeaderRequestEncryptedMonetaryID:        "RequestEncryptedMonetaryID",
	HeaderRequestCommsRevision:              "RequestCommsRevision",
	HeaderClearCommsStatusVariables:         "ClearCommsStatusVariables",
	HeaderRequestCommsStatusVariables:       "RequestCommsStatusVariables",
	HeaderResetDevice:                       "ResetDevice",
	HeaderReply:                             "Reply",
}

// HeaderFromByte converts a raw header byte. It never fails.
func HeaderFromByte(b byte) HeaderType {
	return HeaderType(b)
}

// Byte returns the wire value of the header.
func (h HeaderType) Byte() byte {
	return byte(h)
}

// Known reports whether the header has an entry in the command table.
func (h HeaderType) Known() bool {
	_, ok := headerNames[h]
	return ok
}

func (h HeaderType) String() string {
	if name, ok := headerNames[h]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", byte(h))
}
