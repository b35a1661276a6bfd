package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/copter/internal/metrics"
	"github.com/mmynk/copter/internal/middleware"
	"github.com/mmynk/copter/internal/models"
	"github.com/mmynk/copter/internal/notify"
	"github.com/mmynk/copter/internal/settlement"
	"github.com/mmynk/copter/pkg/api"
)

// SettlementService exposes the settlement workflow over Connect. Every
// command acts as the user carried in the request context.
type SettlementService struct {
	workflow *settlement.Workflow
	notifier notify.Notifier
	logger   *slog.Logger
}

// NewSettlementService creates a new SettlementService. Reminders triggered by
// RemindAll are delivered through notifier.
func NewSettlementService(workflow *settlement.Workflow, notifier notify.Notifier, logger *slog.Logger) *SettlementService {
	return &SettlementService{workflow: workflow, notifier: notifier, logger: logger}
}

// NewSettlementServiceHandler mounts every settlement procedure and returns
// the path prefix to register on a mux.
func NewSettlementServiceHandler(svc *SettlementService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(api.Codec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(api.CreateBillProcedure, connect.NewUnaryHandler(api.CreateBillProcedure, svc.CreateBill, opts...))
	mux.Handle(api.SubmitSelectionProcedure, connect.NewUnaryHandler(api.SubmitSelectionProcedure, svc.SubmitSelection, opts...))
	mux.Handle(api.FinalizeProcedure, connect.NewUnaryHandler(api.FinalizeProcedure, svc.Finalize, opts...))
	mux.Handle(api.ReportPaidProcedure, connect.NewUnaryHandler(api.ReportPaidProcedure, svc.ReportPaid, opts...))
	mux.Handle(api.ConfirmPaymentProcedure, connect.NewUnaryHandler(api.ConfirmPaymentProcedure, svc.ConfirmPayment, opts...))
	mux.Handle(api.RejectPaymentProcedure, connect.NewUnaryHandler(api.RejectPaymentProcedure, svc.RejectPayment, opts...))
	mux.Handle(api.CancelBillProcedure, connect.NewUnaryHandler(api.CancelBillProcedure, svc.CancelBill, opts...))
	mux.Handle(api.GetBillProcedure, connect.NewUnaryHandler(api.GetBillProcedure, svc.GetBill, opts...))
	mux.Handle(api.SetMessageRefProcedure, connect.NewUnaryHandler(api.SetMessageRefProcedure, svc.SetMessageRef, opts...))
	mux.Handle(api.ListActiveBillsProcedure, connect.NewUnaryHandler(api.ListActiveBillsProcedure, svc.ListActiveBills, opts...))
	mux.Handle(api.ListHistoryProcedure, connect.NewUnaryHandler(api.ListHistoryProcedure, svc.ListHistory, opts...))
	mux.Handle(api.ListOutstandingProcedure, connect.NewUnaryHandler(api.ListOutstandingProcedure, svc.ListOutstanding, opts...))
	mux.Handle(api.RemindAllProcedure, connect.NewUnaryHandler(api.RemindAllProcedure, svc.RemindAll, opts...))
	mux.Handle(api.SavePaymentMethodProcedure, connect.NewUnaryHandler(api.SavePaymentMethodProcedure, svc.SavePaymentMethod, opts...))
	mux.Handle(api.GetPaymentMethodProcedure, connect.NewUnaryHandler(api.GetPaymentMethodProcedure, svc.GetPaymentMethod, opts...))
	mux.Handle(api.RemovePaymentMethodProcedure, connect.NewUnaryHandler(api.RemovePaymentMethodProcedure, svc.RemovePaymentMethod, opts...))
	mux.Handle(api.TrackFileProcedure, connect.NewUnaryHandler(api.TrackFileProcedure, svc.TrackFile, opts...))
	return "/" + api.SettlementServiceName + "/", mux
}

// actor returns the authenticated user or an Unauthenticated error.
func actor(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("authentication required"))
	}
	return userID, nil
}

// toConnectError turns workflow errors into Connect errors. Denials keep
// their reason in the error metadata; anything else is a storage failure.
func toConnectError(op string, err error) error {
	denial, ok := settlement.AsDenial(err)
	if !ok {
		slog.Error(op+" failed", "error", err)
		return connect.NewError(connect.CodeInternal, errors.New("internal error"))
	}

	metrics.RecordDenial(string(denial.Reason))
	code := connect.CodeInvalidArgument
	switch denial.Reason.Kind() {
	case settlement.KindNotFound:
		code = connect.CodeNotFound
	case settlement.KindForbidden:
		code = connect.CodePermissionDenied
	case settlement.KindConflict:
		code = connect.CodeFailedPrecondition
	}
	connectErr := connect.NewError(code, errors.New(denial.Message))
	connectErr.Meta().Set(api.DenialReasonHeader, string(denial.Reason))
	return connectErr
}

func snapshotResponse(operation string, snap *models.Snapshot) *connect.Response[api.SnapshotResponse] {
	if operation != "" {
		metrics.RecordTransition(operation, snap.Completed)
	}
	return connect.NewResponse(&api.SnapshotResponse{Snapshot: toAPISnapshot(snap)})
}

// CreateBill creates a bill owned by the caller.
func (s *SettlementService) CreateBill(ctx context.Context, req *connect.Request[api.CreateBillRequest]) (*connect.Response[api.SnapshotResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}

	cmd := settlement.CreateBillCommand{
		Name:           req.Msg.Name,
		Total:          req.Msg.Total,
		Currency:       req.Msg.Currency,
		SplitMode:      models.SplitMode(req.Msg.SplitMode),
		CreatorID:      userID,
		ConversationID: req.Msg.ConversationID,
		ParticipantIDs: req.Msg.ParticipantIDs,
	}
	for _, item := range req.Msg.Items {
		cmd.Items = append(cmd.Items, settlement.ItemInput{Name: item.Name, Amount: item.Amount})
	}
	for _, share := range req.Msg.Shares {
		cmd.Shares = append(cmd.Shares, settlement.ShareInput{UserID: share.UserID, Amount: share.Amount})
	}

	snap, err := s.workflow.CreateBill(ctx, cmd)
	if err != nil {
		return nil, toConnectError("CreateBill", err)
	}
	metrics.RecordBillCreated(string(snap.Bill.SplitMode), snap.Completed)
	s.logger.Info("Bill created", "bill_id", snap.Bill.ID, "mode", snap.Bill.SplitMode, "creator_id", userID)
	return snapshotResponse("", snap), nil
}

// SubmitSelection records which items the caller had on an item bill.
func (s *SettlementService) SubmitSelection(ctx context.Context, req *connect.Request[api.SubmitSelectionRequest]) (*connect.Response[api.SnapshotResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	snap, err := s.workflow.SubmitSelection(ctx, settlement.SubmitSelectionCommand{
		BillID:  req.Msg.BillID,
		ActorID: userID,
		ItemIDs: req.Msg.ItemIDs,
	})
	if err != nil {
		return nil, toConnectError("SubmitSelection", err)
	}
	return snapshotResponse("select", snap), nil
}

// Finalize computes item shares and opens the bill for payment.
func (s *SettlementService) Finalize(ctx context.Context, req *connect.Request[api.BillRequest]) (*connect.Response[api.SnapshotResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	snap, err := s.workflow.Finalize(ctx, req.Msg.BillID, userID)
	if err != nil {
		return nil, toConnectError("Finalize", err)
	}
	return snapshotResponse("finalize", snap), nil
}

// ReportPaid marks the caller's share as awaiting the creator's confirmation.
func (s *SettlementService) ReportPaid(ctx context.Context, req *connect.Request[api.BillRequest]) (*connect.Response[api.SnapshotResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	snap, err := s.workflow.ReportPaid(ctx, req.Msg.BillID, userID)
	if err != nil {
		return nil, toConnectError("ReportPaid", err)
	}
	return snapshotResponse("report_paid", snap), nil
}

// ConfirmPayment lets the creator mark a participant paid.
func (s *SettlementService) ConfirmPayment(ctx context.Context, req *connect.Request[api.ParticipantRequest]) (*connect.Response[api.SnapshotResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	snap, err := s.workflow.ConfirmPayment(ctx, req.Msg.ParticipantID, userID)
	if err != nil {
		return nil, toConnectError("ConfirmPayment", err)
	}
	if snap.Completed {
		s.logger.Info("Bill completed", "bill_id", snap.Bill.ID)
	}
	return snapshotResponse("confirm", snap), nil
}

// RejectPayment lets the creator send a participant back to unpaid.
func (s *SettlementService) RejectPayment(ctx context.Context, req *connect.Request[api.ParticipantRequest]) (*connect.Response[api.SnapshotResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	snap, err := s.workflow.RejectPayment(ctx, req.Msg.ParticipantID, userID)
	if err != nil {
		return nil, toConnectError("RejectPayment", err)
	}
	return snapshotResponse("reject", snap), nil
}

// CancelBill closes an open bill without settling it.
func (s *SettlementService) CancelBill(ctx context.Context, req *connect.Request[api.BillRequest]) (*connect.Response[api.SnapshotResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	snap, err := s.workflow.Cancel(ctx, req.Msg.BillID, userID)
	if err != nil {
		return nil, toConnectError("CancelBill", err)
	}
	s.logger.Info("Bill cancelled", "bill_id", snap.Bill.ID, "creator_id", userID)
	return snapshotResponse("cancel", snap), nil
}

// GetBill returns the current state of a bill.
func (s *SettlementService) GetBill(ctx context.Context, req *connect.Request[api.BillRequest]) (*connect.Response[api.SnapshotResponse], error) {
	if _, err := actor(ctx); err != nil {
		return nil, err
	}
	snap, err := s.workflow.GetBill(ctx, req.Msg.BillID)
	if err != nil {
		return nil, toConnectError("GetBill", err)
	}
	return snapshotResponse("", snap), nil
}

// SetMessageRef records where the bill card was posted.
func (s *SettlementService) SetMessageRef(ctx context.Context, req *connect.Request[api.SetMessageRefRequest]) (*connect.Response[api.Empty], error) {
	if _, err := actor(ctx); err != nil {
		return nil, err
	}
	if err := s.workflow.SetMessageRef(ctx, req.Msg.BillID, req.Msg.MessageRef); err != nil {
		return nil, toConnectError("SetMessageRef", err)
	}
	return connect.NewResponse(&api.Empty{}), nil
}

// ListActiveBills lists open bills of a conversation.
func (s *SettlementService) ListActiveBills(ctx context.Context, req *connect.Request[api.ConversationRequest]) (*connect.Response[api.BillListResponse], error) {
	if _, err := actor(ctx); err != nil {
		return nil, err
	}
	summaries, err := s.workflow.ListActive(ctx, req.Msg.ConversationID)
	if err != nil {
		return nil, toConnectError("ListActiveBills", err)
	}
	return connect.NewResponse(&api.BillListResponse{Bills: toAPISummaries(summaries)}), nil
}

// ListHistory lists the most recent closed bills of a conversation.
func (s *SettlementService) ListHistory(ctx context.Context, req *connect.Request[api.ConversationRequest]) (*connect.Response[api.BillListResponse], error) {
	if _, err := actor(ctx); err != nil {
		return nil, err
	}
	summaries, err := s.workflow.ListHistory(ctx, req.Msg.ConversationID)
	if err != nil {
		return nil, toConnectError("ListHistory", err)
	}
	return connect.NewResponse(&api.BillListResponse{Bills: toAPISummaries(summaries)}), nil
}

// ListOutstanding returns what the caller owes, grouped by creditor.
func (s *SettlementService) ListOutstanding(ctx context.Context, _ *connect.Request[api.Empty]) (*connect.Response[api.OutstandingResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	debts, err := s.workflow.ListOutstanding(ctx, userID)
	if err != nil {
		return nil, toConnectError("ListOutstanding", err)
	}
	return connect.NewResponse(&api.OutstandingResponse{Debts: toAPIDebts(debts)}), nil
}

// RemindAll sends a reminder to everyone who has not paid the bill.
// Failed deliveries are counted, not returned as errors.
func (s *SettlementService) RemindAll(ctx context.Context, req *connect.Request[api.BillRequest]) (*connect.Response[api.RemindAllResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	reminder, err := s.workflow.RemindAll(ctx, req.Msg.BillID, userID)
	if err != nil {
		return nil, toConnectError("RemindAll", err)
	}

	resp := &api.RemindAllResponse{BillID: reminder.Bill.ID}
	for _, p := range reminder.Unpaid {
		r := notify.ReminderFor(models.UnpaidEntry{
			ParticipantID:  p.ID,
			UserID:         p.UserID,
			Amount:         p.Amount,
			Status:         p.Status,
			BillID:         reminder.Bill.ID,
			BillName:       reminder.Bill.Name,
			CreatorID:      reminder.Bill.CreatorID,
			ConversationID: reminder.Bill.ConversationID,
			Currency:       reminder.Bill.Currency,
		})
		if err := s.notifier.Remind(ctx, r); err != nil {
			s.logger.Warn("Reminder delivery failed", "bill_id", r.BillID, "user_id", r.UserID, "error", err)
			metrics.RecordReminder("failed")
			resp.Failed++
			continue
		}
		metrics.RecordReminder("sent")
		resp.Notified++
	}
	return connect.NewResponse(resp), nil
}

// SavePaymentMethod stores how the caller wants to be paid.
func (s *SettlementService) SavePaymentMethod(ctx context.Context, req *connect.Request[api.PaymentMethod]) (*connect.Response[api.PaymentMethodResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	pm, err := s.workflow.SavePaymentMethod(ctx, fromAPIPaymentMethod(userID, req.Msg))
	if err != nil {
		return nil, toConnectError("SavePaymentMethod", err)
	}
	return connect.NewResponse(&api.PaymentMethodResponse{PaymentMethod: toAPIPaymentMethod(pm)}), nil
}

// GetPaymentMethod returns the caller's payment method.
func (s *SettlementService) GetPaymentMethod(ctx context.Context, _ *connect.Request[api.Empty]) (*connect.Response[api.PaymentMethodResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	pm, err := s.workflow.GetPaymentMethod(ctx, userID)
	if err != nil {
		return nil, toConnectError("GetPaymentMethod", err)
	}
	return connect.NewResponse(&api.PaymentMethodResponse{PaymentMethod: toAPIPaymentMethod(pm)}), nil
}

// RemovePaymentMethod deletes the caller's payment method.
func (s *SettlementService) RemovePaymentMethod(ctx context.Context, _ *connect.Request[api.Empty]) (*connect.Response[api.Empty], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.workflow.RemovePaymentMethod(ctx, userID); err != nil {
		return nil, toConnectError("RemovePaymentMethod", err)
	}
	return connect.NewResponse(&api.Empty{}), nil
}

// TrackFile registers an attachment uploaded by the caller.
func (s *SettlementService) TrackFile(ctx context.Context, req *connect.Request[api.TrackFileRequest]) (*connect.Response[api.TrackFileResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	file, err := s.workflow.TrackFile(ctx, settlement.TrackFileCommand{
		BillID:     req.Msg.BillID,
		FileRef:    req.Msg.FileRef,
		FileType:   models.FileType(req.Msg.FileType),
		UploadedBy: userID,
	})
	if err != nil {
		return nil, toConnectError("TrackFile", err)
	}
	return connect.NewResponse(&api.TrackFileResponse{FileID: file.ID}), nil
}
