package service

import (
	"github.com/mmynk/copter/internal/calculator"
	"github.com/mmynk/copter/internal/models"
	"github.com/mmynk/copter/pkg/api"
)

func toAPIBill(b models.Bill) api.Bill {
	return api.Bill{
		ID:             b.ID,
		Name:           b.Name,
		Total:          b.Total,
		Currency:       b.Currency,
		SplitMode:      string(b.SplitMode),
		CreatorID:      b.CreatorID,
		ConversationID: b.ConversationID,
		MessageRef:     b.MessageRef,
		Status:         string(b.Status),
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

func toAPIParticipant(p models.Participant) api.Participant {
	return api.Participant{
		ID:          p.ID,
		UserID:      p.UserID,
		Amount:      p.Amount,
		HasSelected: p.HasSelected,
		Status:      string(p.Status),
		PaidAt:      p.PaidAt,
	}
}

func toAPIPaymentMethod(pm *models.PaymentMethod) api.PaymentMethod {
	return api.PaymentMethod{
		UserID:            pm.UserID,
		PromptPayType:     string(pm.PromptPayType),
		PromptPayID:       pm.PromptPayID,
		BankName:          pm.BankName,
		BankAccountNumber: pm.BankAccountNumber,
		BankAccountName:   pm.BankAccountName,
	}
}

func fromAPIPaymentMethod(userID string, pm *api.PaymentMethod) *models.PaymentMethod {
	return &models.PaymentMethod{
		UserID:            userID,
		PromptPayType:     models.PromptPayType(pm.PromptPayType),
		PromptPayID:       pm.PromptPayID,
		BankName:          pm.BankName,
		BankAccountNumber: pm.BankAccountNumber,
		BankAccountName:   pm.BankAccountName,
	}
}

func toAPISnapshot(s *models.Snapshot) api.Snapshot {
	out := api.Snapshot{
		Bill:         toAPIBill(s.Bill),
		Participants: make([]api.Participant, len(s.Participants)),
		Completed:    s.Completed,
		AllSelected:  s.AllSelected,
	}
	for i, p := range s.Participants {
		out.Participants[i] = toAPIParticipant(p)
	}
	if len(s.Items) > 0 {
		out.Items = make([]api.Item, len(s.Items))
		for i, item := range s.Items {
			out.Items[i] = api.Item{ID: item.ID, Name: item.Name, Amount: item.Amount, Position: item.Position}
		}
	}
	if len(s.Breakdown) > 0 {
		out.Breakdown = make(map[string][]api.ItemShare, len(s.Breakdown))
		for participantID, shares := range s.Breakdown {
			converted := make([]api.ItemShare, len(shares))
			for i, share := range shares {
				converted[i] = api.ItemShare{ItemID: share.ItemID, Name: share.Name, Amount: share.Amount}
			}
			out.Breakdown[participantID] = converted
		}
	}
	if s.CreatorPaymentMethod != nil {
		pm := toAPIPaymentMethod(s.CreatorPaymentMethod)
		out.CreatorPaymentMethod = &pm
	}
	return out
}

func toAPISummaries(summaries []models.BillSummary) []api.BillSummary {
	out := make([]api.BillSummary, len(summaries))
	for i, s := range summaries {
		out[i] = api.BillSummary{
			Bill:             toAPIBill(s.Bill),
			ParticipantCount: s.ParticipantCount,
			PaidCount:        s.PaidCount,
		}
	}
	return out
}

func toAPIDebts(debts []calculator.CreditorDebt) []api.CreditorDebt {
	out := make([]api.CreditorDebt, len(debts))
	for i, d := range debts {
		bills := make([]api.OutstandingBill, len(d.Bills))
		for j, b := range d.Bills {
			bills[j] = api.OutstandingBill{
				BillID:         b.BillID,
				BillName:       b.BillName,
				ConversationID: b.ConversationID,
				Amount:         b.Amount,
				Status:         string(b.Status),
			}
		}
		out[i] = api.CreditorDebt{
			CreditorID: d.CreditorID,
			Currency:   d.Currency,
			Amount:     d.Amount,
			Bills:      bills,
		}
	}
	return out
}
