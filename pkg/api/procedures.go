package api

const (
	// SettlementServiceName is the fully-qualified name of the SettlementService service.
	SettlementServiceName = "copter.v1.SettlementService"
	// AuthServiceName is the fully-qualified name of the AuthService service.
	AuthServiceName = "copter.v1.AuthService"
)

// Procedure paths, as mounted on the HTTP mux.
const (
	CreateBillProcedure          = "/" + SettlementServiceName + "/CreateBill"
	SubmitSelectionProcedure     = "/" + SettlementServiceName + "/SubmitSelection"
	FinalizeProcedure            = "/" + SettlementServiceName + "/Finalize"
	ReportPaidProcedure          = "/" + SettlementServiceName + "/ReportPaid"
	ConfirmPaymentProcedure      = "/" + SettlementServiceName + "/ConfirmPayment"
	RejectPaymentProcedure       = "/" + SettlementServiceName + "/RejectPayment"
	CancelBillProcedure          = "/" + SettlementServiceName + "/CancelBill"
	GetBillProcedure             = "/" + SettlementServiceName + "/GetBill"
	SetMessageRefProcedure       = "/" + SettlementServiceName + "/SetMessageRef"
	ListActiveBillsProcedure     = "/" + SettlementServiceName + "/ListActiveBills"
	ListHistoryProcedure         = "/" + SettlementServiceName + "/ListHistory"
	ListOutstandingProcedure     = "/" + SettlementServiceName + "/ListOutstanding"
	RemindAllProcedure           = "/" + SettlementServiceName + "/RemindAll"
	SavePaymentMethodProcedure   = "/" + SettlementServiceName + "/SavePaymentMethod"
	GetPaymentMethodProcedure    = "/" + SettlementServiceName + "/GetPaymentMethod"
	RemovePaymentMethodProcedure = "/" + SettlementServiceName + "/RemovePaymentMethod"
	TrackFileProcedure           = "/" + SettlementServiceName + "/TrackFile"

	IssueTokenProcedure = "/" + AuthServiceName + "/IssueToken"
)

// DenialReasonHeader carries the denial reason code in error metadata.
const DenialReasonHeader = "Copter-Denial-Reason"
