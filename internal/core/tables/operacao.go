package tables

import (
	"github.com/JonMunkholm/easyfin/internal/core"
	"github.com/JonMunkholm/easyfin/internal/table"
)

const (
	groupPessoal  = "Pessoal"
	groupOperacao = "Operação"
)

var contractLabels = map[string]string{
	"draft":    "Rascunho",
	"active":   "Vigente",
	"expired":  "Encerrado",
	"canceled": "Cancelado",
}

func init() {
	registerPayroll()
	registerContracts()
	registerProduction()
}

func registerPayroll() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:      "payroll",
			Group:    groupPessoal,
			Label:    "Folha de pagamento",
			Relation: "pessoal.folha",
			Endpoint: "folha",
			FileName: "folha_de_pagamento",
			Roles:    []core.Role{core.RoleFinancial},
		},
		Columns: []table.Column{
			text("competence", "Competência"),
			text("employee", "Colaborador"),
			document("cpf", "CPF"),
			text("role", "Cargo"),
			currency("gross", "Salário bruto"),
			currency("deductions", "Descontos"),
			currency("net", "Líquido"),
			date("payment_date", "Pagamento"),
			actions("/pessoal/folha"),
		},
	})
}

func registerContracts() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:      "contracts",
			Group:    groupOperacao,
			Label:    "Contratos",
			Relation: "operacao.contratos",
			Endpoint: "contratos",
			FileName: "contratos",
		},
		Columns: []table.Column{
			text("number", "Número"),
			linked("counterparty", "Contratante", "counterparty.name", "/operacao/contratos/%v"),
			document("counterparty_document", "CPF/CNPJ"),
			date("start_date", "Início"),
			date("end_date", "Término"),
			currency("monthly_value", "Valor mensal"),
			status("status", "Situação", contractLabels),
			actions("/operacao/contratos"),
		},
	})
}

func registerProduction() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:      "production",
			Group:    groupOperacao,
			Label:    "Produção",
			Relation: "operacao.producao",
			Endpoint: "producao",
			FileName: "producao",
			Roles:    []core.Role{core.RolePilot, core.RoleLocalManager},
		},
		PageSize: 20,
		Columns: []table.Column{
			date("date", "Data"),
			nested("unit", "Unidade", "unit.name"),
			text("pilot", "Piloto"),
			text("aircraft", "Aeronave"),
			text("service", "Serviço"),
			text("area_ha", "Área (ha)"),
			text("hours", "Horas"),
			currency("revenue", "Faturamento"),
			actions("/operacao/producao"),
		},
	})
}
