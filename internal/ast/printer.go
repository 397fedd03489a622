package ast

import (
	"fmt"
	"strings"

	"github.com/ccllang/ccl/internal/lexer"
)

// Print returns a tree-like string representation of the AST, used by the
// cclcheck CLI's -ast flag and by the checker to compare constraints
// structurally (the output carries no source positions).
func Print(node Node) string {
	var sb strings.Builder
	printNode(&sb, node, 0)
	return sb.String()
}

func printNode(sb *strings.Builder, node Node, indent int) {
	if node == nil {
		return
	}

	prefix := strings.Repeat("  ", indent)

	switch n := node.(type) {
	case *Method:
		sb.WriteString(prefix + "Method\n")
		for _, stmt := range n.Statements {
			printNode(sb, stmt, indent+1)
		}
		if len(n.Annotations) > 0 {
			sb.WriteString(prefix + "  where\n")
			for _, a := range n.Annotations {
				printNode(sb, a, indent+2)
			}
		}

	case *Block:
		for _, stmt := range n.Statements {
			printNode(sb, stmt, indent)
		}

	case *Assign:
		sb.WriteString(prefix + "Assign\n")
		printNode(sb, n.Target, indent+1)
		printNode(sb, n.Value, indent+1)

	case *For:
		sb.WriteString(fmt.Sprintf("%sFor %s\n", prefix, n.Var))
		printNode(sb, n.Low, indent+1)
		printNode(sb, n.High, indent+1)
		printNode(sb, n.Body, indent+1)

	case *ForEach:
		kind := "atom"
		if n.Kind == KindBond {
			kind = "bond"
		}
		sb.WriteString(fmt.Sprintf("%sForEach %s %s\n", prefix, kind, n.Var))
		if n.Cond != nil {
			printNode(sb, n.Cond, indent+1)
		}
		printNode(sb, n.Body, indent+1)

	case *IntLit:
		sb.WriteString(fmt.Sprintf("%sIntLit: %s\n", prefix, n.Value))

	case *FloatLit:
		sb.WriteString(fmt.Sprintf("%sFloatLit: %s\n", prefix, n.Value))

	case *Name:
		sb.WriteString(fmt.Sprintf("%sName: %s\n", prefix, n.Value))

	case *Subscript:
		sb.WriteString(fmt.Sprintf("%sSubscript: %s\n", prefix, n.Name))
		for _, idx := range n.Indices {
			printNode(sb, idx, indent+1)
		}

	case *BinaryExpr:
		sb.WriteString(fmt.Sprintf("%sBinaryExpr: %s\n", prefix, tokenTypeToString(n.Op)))
		printNode(sb, n.Left, indent+1)
		printNode(sb, n.Right, indent+1)

	case *UnaryExpr:
		sb.WriteString(fmt.Sprintf("%sUnaryExpr: %s\n", prefix, tokenTypeToString(n.Op)))
		printNode(sb, n.Operand, indent+1)

	case *Sum:
		sb.WriteString(fmt.Sprintf("%sSum %s\n", prefix, n.Index))
		printNode(sb, n.Body, indent+1)

	case *EE:
		sb.WriteString(fmt.Sprintf("%sEE[%s,%s]\n", prefix, n.RowIndex, n.ColIndex))
		printNode(sb, n.Diag, indent+1)
		printNode(sb, n.Off, indent+1)
		printNode(sb, n.Rhs, indent+1)
		if n.Radius != nil {
			printNode(sb, n.Radius, indent+1)
		}

	case *Call:
		sb.WriteString(fmt.Sprintf("%sCall: %s\n", prefix, n.Name))
		printNode(sb, n.Arg, indent+1)

	case *BinaryLogicalOp:
		sb.WriteString(fmt.Sprintf("%sBinaryLogicalOp: %s\n", prefix, tokenTypeToString(n.Op)))
		printNode(sb, n.Left, indent+1)
		printNode(sb, n.Right, indent+1)

	case *UnaryLogicalOp:
		sb.WriteString(prefix + "UnaryLogicalOp: not\n")
		printNode(sb, n.Operand, indent+1)

	case *RelOp:
		sb.WriteString(fmt.Sprintf("%sRelOp: %s\n", prefix, tokenTypeToString(n.Op)))
		printNode(sb, n.Left, indent+1)
		printNode(sb, n.Right, indent+1)

	case *Predicate:
		sb.WriteString(fmt.Sprintf("%sPredicate: %s\n", prefix, n.Name))
		for _, arg := range n.Args {
			printNode(sb, arg, indent+1)
		}

	case *Parameter:
		sb.WriteString(fmt.Sprintf("%sParameter: %s\n", prefix, n.Name))

	case *Object:
		sb.WriteString(fmt.Sprintf("%sObject: %s\n", prefix, n.Name))
		if n.Cond != nil {
			printNode(sb, n.Cond, indent+1)
		}

	case *Property:
		sb.WriteString(fmt.Sprintf("%sProperty: %s = %s\n", prefix, n.Name, n.PropWord))

	case *Constant:
		sb.WriteString(fmt.Sprintf("%sConstant: %s = %s of %s\n", prefix, n.Name, n.PropWord, n.Element))

	case *Substitution:
		sb.WriteString(fmt.Sprintf("%sSubstitution: %s\n", prefix, n.Name))
		printNode(sb, n.Value, indent+1)
		if n.Cond != nil {
			printNode(sb, n.Cond, indent+1)
		}

	default:
		sb.WriteString(fmt.Sprintf("%sUnknown node type: %T\n", prefix, node))
	}
}

func tokenTypeToString(tt lexer.TokenType) string {
	switch tt {
	case lexer.PLUS:
		return "+"
	case lexer.MINUS:
		return "-"
	case lexer.STAR:
		return "*"
	case lexer.SLASH:
		return "/"
	case lexer.CARET:
		return "^"
	case lexer.EQ:
		return "=="
	case lexer.NEQ:
		return "!="
	case lexer.LT:
		return "<"
	case lexer.LE:
		return "<="
	case lexer.GT:
		return ">"
	case lexer.GE:
		return ">="
	case lexer.AND:
		return "and"
	case lexer.OR:
		return "or"
	case lexer.NOT:
		return "not"
	default:
		return fmt.Sprintf("token(%d)", tt)
	}
}
