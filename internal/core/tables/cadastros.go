package tables

import (
	"github.com/JonMunkholm/easyfin/internal/core"
	"github.com/JonMunkholm/easyfin/internal/table"
)

const groupCadastros = "Cadastros"

var activeLabels = map[string]string{
	"true":  "Ativo",
	"false": "Inativo",
}

func init() {
	registerSuppliers()
	registerCustomers()
	registerCostCenters()
	registerTaxRates()
	registerBankAccounts()
}

func registerSuppliers() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:      "suppliers",
			Group:    groupCadastros,
			Label:    "Fornecedores",
			Relation: "cadastro.fornecedores",
			Endpoint: "fornecedores",
			FileName: "fornecedores",
		},
		Columns: []table.Column{
			text("name", "Razão social"),
			text("trade_name", "Nome fantasia"),
			document("document", "CPF/CNPJ"),
			text("email", "E-mail"),
			phone("phone", "Telefone"),
			place("location", "Cidade/UF", "address.city", "address.state"),
			status("active", "Situação", activeLabels),
			actions("/cadastros/fornecedores"),
		},
	})
}

func registerCustomers() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:      "customers",
			Group:    groupCadastros,
			Label:    "Clientes",
			Relation: "cadastro.clientes",
			Endpoint: "clientes",
			FileName: "clientes",
		},
		Columns: []table.Column{
			text("name", "Nome"),
			document("document", "CPF/CNPJ"),
			text("email", "E-mail"),
			phone("phone", "Telefone"),
			nested("city", "Cidade", "address.city"),
			nested("state", "UF", "address.state"),
			currency("credit_limit", "Limite de crédito"),
			status("active", "Situação", activeLabels),
			actions("/cadastros/clientes"),
		},
	})
}

func registerCostCenters() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:      "cost_centers",
			Group:    groupCadastros,
			Label:    "Centros de custo",
			Relation: "cadastro.centros_custo",
			Endpoint: "centros-de-custo",
			FileName: "centros_de_custo",
			Roles:    []core.Role{core.RoleFinancial, core.RoleLocalManager},
		},
		Columns: []table.Column{
			text("code", "Código"),
			text("description", "Descrição"),
			nested("unit", "Unidade", "unit.name"),
			currency("budget", "Orçamento"),
			status("active", "Situação", activeLabels),
			actions("/cadastros/centros-de-custo"),
		},
	})
}

func registerTaxRates() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:      "tax_rates",
			Group:    groupCadastros,
			Label:    "Alíquotas",
			Relation: "cadastro.aliquotas",
			Endpoint: "aliquotas",
			FileName: "aliquotas",
			Roles:    []core.Role{core.RoleFinancial},
		},
		Columns: []table.Column{
			text("tax", "Tributo"),
			text("state", "UF"),
			percent("rate", "Alíquota"),
			date("valid_from", "Vigência inicial"),
			date("valid_to", "Vigência final"),
			actions("/cadastros/aliquotas"),
		},
	})
}

func registerBankAccounts() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:      "bank_accounts",
			Group:    groupCadastros,
			Label:    "Contas bancárias",
			Relation: "cadastro.contas_bancarias",
			Endpoint: "contas-bancarias",
			FileName: "contas_bancarias",
			Roles:    []core.Role{core.RoleFinancial},
		},
		Columns: []table.Column{
			text("bank", "Banco"),
			text("agency", "Agência"),
			text("account", "Conta"),
			text("holder", "Titular"),
			document("holder_document", "CPF/CNPJ do titular"),
			currency("balance", "Saldo"),
			actions("/cadastros/contas-bancarias"),
		},
	})
}
