package tables

import (
	"github.com/JonMunkholm/easyfin/internal/core"
	"github.com/JonMunkholm/easyfin/internal/format"
	"github.com/JonMunkholm/easyfin/internal/table"
)

const groupFinanceiro = "Financeiro"

var titleLabels = map[string]string{
	"open":      "Em aberto",
	"paid":      "Quitado",
	"partial":   "Parcial",
	"overdue":   "Vencido",
	"cancelled": "Cancelado",
}

var entryLabels = map[string]string{
	"credit": "Entrada",
	"debit":  "Saída",
}

func init() {
	registerCashBook()
	registerPayables()
	registerReceivables()
}

// outstanding is amount minus paid, computed from the row.
func outstanding() table.Column {
	return table.Column{
		ID:     "outstanding",
		Header: "Saldo em aberto",
		Size:   1.2,
		Accessor: func(r table.Row) any {
			amount, _ := format.Float(r["amount"])
			paid, _ := format.Float(r["paid"])
			return amount - paid
		},
		Render: func(_ table.Row, v any) any {
			return table.El("span", map[string]any{"class": "num"}, format.Currency(v))
		},
	}
}

func registerCashBook() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:      "cash_book",
			Group:    groupFinanceiro,
			Label:    "Livro caixa",
			Relation: "financeiro.livro_caixa",
			Endpoint: "livro-caixa",
			FileName: "livro_caixa",
			Roles:    []core.Role{core.RoleFinancial, core.RoleLocalManager},
		},
		PageSize: 25,
		Columns: []table.Column{
			date("date", "Data"),
			text("description", "Histórico"),
			nested("cost_center", "Centro de custo", "cost_center.code"),
			status("kind", "Tipo", entryLabels),
			currency("amount", "Valor"),
			currency("running_balance", "Saldo"),
			actions("/financeiro/livro-caixa"),
		},
	})
}

func registerPayables() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:      "payables",
			Group:    groupFinanceiro,
			Label:    "Contas a pagar",
			Relation: "financeiro.contas_pagar",
			Endpoint: "contas-a-pagar",
			FileName: "contas_a_pagar",
			Roles:    []core.Role{core.RoleFinancial},
		},
		Columns: []table.Column{
			text("document_number", "Documento"),
			nested("supplier", "Fornecedor", "supplier.name"),
			document("supplier_document", "CPF/CNPJ"),
			date("issue_date", "Emissão"),
			date("due_date", "Vencimento"),
			currency("amount", "Valor"),
			currency("paid", "Pago"),
			outstanding(),
			status("status", "Situação", titleLabels),
			actions("/financeiro/contas-a-pagar"),
		},
	})
}

func registerReceivables() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:      "receivables",
			Group:    groupFinanceiro,
			Label:    "Contas a receber",
			Relation: "financeiro.contas_receber",
			Endpoint: "contas-a-receber",
			FileName: "contas_a_receber",
			Roles:    []core.Role{core.RoleFinancial},
		},
		Columns: []table.Column{
			text("document_number", "Documento"),
			nested("customer", "Cliente", "customer.name"),
			document("customer_document", "CPF/CNPJ"),
			date("issue_date", "Emissão"),
			date("due_date", "Vencimento"),
			currency("amount", "Valor"),
			currency("paid", "Recebido"),
			outstanding(),
			status("status", "Situação", titleLabels),
			actions("/financeiro/contas-a-receber"),
		},
	})
}
