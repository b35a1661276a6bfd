package api

import (
	"context"
	"errors"
	"strings"

	"connectrpc.com/connect"
)

func newUnary[Req, Res any](httpClient connect.HTTPClient, baseURL, procedure string, opts []connect.ClientOption) *connect.Client[Req, Res] {
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
	return connect.NewClient[Req, Res](httpClient, strings.TrimRight(baseURL, "/")+procedure, opts...)
}

// SettlementServiceClient is a client for the copter.v1.SettlementService service.
type SettlementServiceClient struct {
	createBill          *connect.Client[CreateBillRequest, SnapshotResponse]
	submitSelection     *connect.Client[SubmitSelectionRequest, SnapshotResponse]
	finalize            *connect.Client[BillRequest, SnapshotResponse]
	reportPaid          *connect.Client[BillRequest, SnapshotResponse]
	confirmPayment      *connect.Client[ParticipantRequest, SnapshotResponse]
	rejectPayment       *connect.Client[ParticipantRequest, SnapshotResponse]
	cancelBill          *connect.Client[BillRequest, SnapshotResponse]
	getBill             *connect.Client[BillRequest, SnapshotResponse]
	setMessageRef       *connect.Client[SetMessageRefRequest, Empty]
	listActiveBills     *connect.Client[ConversationRequest, BillListResponse]
	listHistory         *connect.Client[ConversationRequest, BillListResponse]
	listOutstanding     *connect.Client[Empty, OutstandingResponse]
	remindAll           *connect.Client[BillRequest, RemindAllResponse]
	savePaymentMethod   *connect.Client[PaymentMethod, PaymentMethodResponse]
	getPaymentMethod    *connect.Client[Empty, PaymentMethodResponse]
	removePaymentMethod *connect.Client[Empty, Empty]
	trackFile           *connect.Client[TrackFileRequest, TrackFileResponse]
}

// NewSettlementServiceClient constructs a client for the copter.v1.SettlementService service.
// baseURL is the server root, e.g. http://localhost:8080.
func NewSettlementServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *SettlementServiceClient {
	return &SettlementServiceClient{
		createBill:          newUnary[CreateBillRequest, SnapshotResponse](httpClient, baseURL, CreateBillProcedure, opts),
		submitSelection:     newUnary[SubmitSelectionRequest, SnapshotResponse](httpClient, baseURL, SubmitSelectionProcedure, opts),
		finalize:            newUnary[BillRequest, SnapshotResponse](httpClient, baseURL, FinalizeProcedure, opts),
		reportPaid:          newUnary[BillRequest, SnapshotResponse](httpClient, baseURL, ReportPaidProcedure, opts),
		confirmPayment:      newUnary[ParticipantRequest, SnapshotResponse](httpClient, baseURL, ConfirmPaymentProcedure, opts),
		rejectPayment:       newUnary[ParticipantRequest, SnapshotResponse](httpClient, baseURL, RejectPaymentProcedure, opts),
		cancelBill:          newUnary[BillRequest, SnapshotResponse](httpClient, baseURL, CancelBillProcedure, opts),
		getBill:             newUnary[BillRequest, SnapshotResponse](httpClient, baseURL, GetBillProcedure, opts),
		setMessageRef:       newUnary[SetMessageRefRequest, Empty](httpClient, baseURL, SetMessageRefProcedure, opts),
		listActiveBills:     newUnary[ConversationRequest, BillListResponse](httpClient, baseURL, ListActiveBillsProcedure, opts),
		listHistory:         newUnary[ConversationRequest, BillListResponse](httpClient, baseURL, ListHistoryProcedure, opts),
		listOutstanding:     newUnary[Empty, OutstandingResponse](httpClient, baseURL, ListOutstandingProcedure, opts),
		remindAll:           newUnary[BillRequest, RemindAllResponse](httpClient, baseURL, RemindAllProcedure, opts),
		savePaymentMethod:   newUnary[PaymentMethod, PaymentMethodResponse](httpClient, baseURL, SavePaymentMethodProcedure, opts),
		getPaymentMethod:    newUnary[Empty, PaymentMethodResponse](httpClient, baseURL, GetPaymentMethodProcedure, opts),
		removePaymentMethod: newUnary[Empty, Empty](httpClient, baseURL, RemovePaymentMethodProcedure, opts),
		trackFile:           newUnary[TrackFileRequest, TrackFileResponse](httpClient, baseURL, TrackFileProcedure, opts),
	}
}

func (c *SettlementServiceClient) CreateBill(ctx context.Context, req *connect.Request[CreateBillRequest]) (*connect.Response[SnapshotResponse], error) {
	return c.createBill.CallUnary(ctx, req)
}

func (c *SettlementServiceClient) SubmitSelection(ctx context.Context, req *connect.Request[SubmitSelectionRequest]) (*connect.Response[SnapshotResponse], error) {
	return c.submitSelection.CallUnary(ctx, req)
}

func (c *SettlementServiceClient) Finalize(ctx context.Context, req *connect.Request[BillRequest]) (*connect.Response[SnapshotResponse], error) {
	return c.finalize.CallUnary(ctx, req)
}

func (c *SettlementServiceClient) ReportPaid(ctx context.Context, req *connect.Request[BillRequest]) (*connect.Response[SnapshotResponse], error) {
	return c.reportPaid.CallUnary(ctx, req)
}

func (c *SettlementServiceClient) ConfirmPayment(ctx context.Context, req *connect.Request[ParticipantRequest]) (*connect.Response[SnapshotResponse], error) {
	return c.confirmPayment.CallUnary(ctx, req)
}

func (c *SettlementServiceClient) RejectPayment(ctx context.Context, req *connect.Request[ParticipantRequest]) (*connect.Response[SnapshotResponse], error) {
	return c.rejectPayment.CallUnary(ctx, req)
}

func (c *SettlementServiceClient) CancelBill(ctx context.Context, req *connect.Request[BillRequest]) (*connect.Response[SnapshotResponse], error) {
	return c.cancelBill.CallUnary(ctx, req)
}

func (c *SettlementServiceClient) GetBill(ctx context.Context, req *connect.Request[BillRequest]) (*connect.Response[SnapshotResponse], error) {
	return c.getBill.CallUnary(ctx, req)
}

func (c *SettlementServiceClient) SetMessageRef(ctx context.Context, req *connect.Request[SetMessageRefRequest]) (*connect.Response[Empty], error) {
	return c.setMessageRef.CallUnary(ctx, req)
}

func (c *SettlementServiceClient) ListActiveBills(ctx context.Context, req *connect.Request[ConversationRequest]) (*connect.Response[BillListResponse], error) {
	return c.listActiveBills.CallUnary(ctx, req)
}

func (c *SettlementServiceClient) ListHistory(ctx context.Context, req *connect.Request[ConversationRequest]) (*connect.Response[BillListResponse], error) {
	return c.listHistory.CallUnary(ctx, req)
}

func (c *SettlementServiceClient) ListOutstanding(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[OutstandingResponse], error) {
	return c.listOutstanding.CallUnary(ctx, req)
}

func (c *SettlementServiceClient) RemindAll(ctx context.Context, req *connect.Request[BillRequest]) (*connect.Response[RemindAllResponse], error) {
	return c.remindAll.CallUnary(ctx, req)
}

func (c *SettlementServiceClient) SavePaymentMethod(ctx context.Context, req *connect.Request[PaymentMethod]) (*connect.Response[PaymentMethodResponse], error) {
	return c.savePaymentMethod.CallUnary(ctx, req)
}

func (c *SettlementServiceClient) GetPaymentMethod(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[PaymentMethodResponse], error) {
	return c.getPaymentMethod.CallUnary(ctx, req)
}

func (c *SettlementServiceClient) RemovePaymentMethod(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[Empty], error) {
	return c.removePaymentMethod.CallUnary(ctx, req)
}

func (c *SettlementServiceClient) TrackFile(ctx context.Context, req *connect.Request[TrackFileRequest]) (*connect.Response[TrackFileResponse], error) {
	return c.trackFile.CallUnary(ctx, req)
}

// AuthServiceClient is a client for the copter.v1.AuthService service.
type AuthServiceClient struct {
	issueToken *connect.Client[IssueTokenRequest, IssueTokenResponse]
}

// NewAuthServiceClient constructs a client for the copter.v1.AuthService service.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *AuthServiceClient {
	return &AuthServiceClient{
		issueToken: newUnary[IssueTokenRequest, IssueTokenResponse](httpClient, baseURL, IssueTokenProcedure, opts),
	}
}

func (c *AuthServiceClient) IssueToken(ctx context.Context, req *connect.Request[IssueTokenRequest]) (*connect.Response[IssueTokenResponse], error) {
	return c.issueToken.CallUnary(ctx, req)
}

// DenialReason returns the denial reason code carried by err, if any.
func DenialReason(err error) string {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr.Meta().Get(DenialReasonHeader)
	}
	return ""
}
