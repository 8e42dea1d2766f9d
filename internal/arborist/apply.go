package arborist

import (
	"fmt"

	"github.com/nocturnelabs/restringer/internal/ast"
	"github.com/nocturnelabs/restringer/internal/errors"
)

// setChild writes value into parent's key slot, replacing whatever was
// there (a single-valued field) or overwriting one array slot. It is a
// closed type switch mirroring ast.Children's enumeration, since the
// node set is fixed and reflection would buy nothing but speed loss.
func setChild(parent ast.Node, key ast.ParentKey, value ast.Node) error {
	badType := func() error {
		return errors.CommitInvariant(fmt.Sprintf("replacement type mismatch at %s.%s", parent.Kind(), key))
	}

	switch p := parent.(type) {
	case *ast.Program:
		if key.Field == "Body" {
			return setStmtAt(p.Body, key.Index, value, badType)
		}
	case *ast.MemberExpression:
		switch key.Field {
		case "Object":
			e, ok := value.(ast.Expression)
			if !ok {
				return badType()
			}
			p.Object = e
			return nil
		case "Property":
			e, ok := value.(ast.Expression)
			if !ok {
				return badType()
			}
			p.Property = e
			return nil
		}
	case *ast.CallExpression:
		switch key.Field {
		case "Callee":
			e, ok := value.(ast.Expression)
			if !ok {
				return badType()
			}
			p.Callee = e
			return nil
		case "Arguments":
			return setExprAt(p.Arguments, key.Index, value, badType)
		}
	case *ast.NewExpression:
		switch key.Field {
		case "Callee":
			e, ok := value.(ast.Expression)
			if !ok {
				return badType()
			}
			p.Callee = e
			return nil
		case "Arguments":
			return setExprAt(p.Arguments, key.Index, value, badType)
		}
	case *ast.FunctionDeclaration:
		switch key.Field {
		case "Id":
			id, ok := value.(*ast.Identifier)
			if !ok {
				return badType()
			}
			p.Id = id
			return nil
		case "Params":
			return setExprAt(p.Params, key.Index, value, badType)
		case "Body":
			b, ok := value.(*ast.BlockStatement)
			if !ok {
				return badType()
			}
			p.Body = b
			return nil
		}
	case *ast.FunctionExpression:
		switch key.Field {
		case "Id":
			id, ok := value.(*ast.Identifier)
			if !ok {
				return badType()
			}
			p.Id = id
			return nil
		case "Params":
			return setExprAt(p.Params, key.Index, value, badType)
		case "Body":
			b, ok := value.(*ast.BlockStatement)
			if !ok {
				return badType()
			}
			p.Body = b
			return nil
		}
	case *ast.ArrowFunctionExpression:
		switch key.Field {
		case "Params":
			return setExprAt(p.Params, key.Index, value, badType)
		case "Body":
			p.Body = value
			return nil
		}
	case *ast.ClassDeclaration:
		switch key.Field {
		case "Id":
			id, ok := value.(*ast.Identifier)
			if !ok {
				return badType()
			}
			p.Id = id
			return nil
		case "SuperClass":
			e, ok := value.(ast.Expression)
			if !ok {
				return badType()
			}
			p.SuperClass = e
			return nil
		case "Body":
			m, ok := value.(*ast.MethodDefinition)
			if !ok {
				return badType()
			}
			if key.Index < 0 || key.Index >= len(p.Body) {
				return errors.CommitInvariant("class body index out of range")
			}
			p.Body[key.Index] = m
			return nil
		}
	case *ast.MethodDefinition:
		switch key.Field {
		case "Key":
			e, ok := value.(ast.Expression)
			if !ok {
				return badType()
			}
			p.Key = e
			return nil
		case "Value":
			f, ok := value.(*ast.FunctionExpression)
			if !ok {
				return badType()
			}
			p.Value = f
			return nil
		}
	case *ast.VariableDeclaration:
		if key.Field == "Declarations" {
			d, ok := value.(*ast.VariableDeclarator)
			if !ok {
				return badType()
			}
			if key.Index < 0 || key.Index >= len(p.Declarations) {
				return errors.CommitInvariant("declarator index out of range")
			}
			p.Declarations[key.Index] = d
			return nil
		}
	case *ast.VariableDeclarator:
		switch key.Field {
		case "Id":
			e, ok := value.(ast.Expression)
			if !ok {
				return badType()
			}
			p.Id = e
			return nil
		case "Init":
			e, ok := value.(ast.Expression)
			if !ok {
				return badType()
			}
			p.Init = e
			return nil
		}
	case *ast.AssignmentExpression:
		return setLeftRight(&p.Left, &p.Right, key, value, badType)
	case *ast.BinaryExpression:
		return setLeftRight(&p.Left, &p.Right, key, value, badType)
	case *ast.LogicalExpression:
		return setLeftRight(&p.Left, &p.Right, key, value, badType)
	case *ast.UnaryExpression:
		if key.Field == "Argument" {
			e, ok := value.(ast.Expression)
			if !ok {
				return badType()
			}
			p.Argument = e
			return nil
		}
	case *ast.UpdateExpression:
		if key.Field == "Argument" {
			e, ok := value.(ast.Expression)
			if !ok {
				return badType()
			}
			p.Argument = e
			return nil
		}
	case *ast.ConditionalExpression:
		switch key.Field {
		case "Test":
			e, ok := value.(ast.Expression)
			if !ok {
				return badType()
			}
			p.Test = e
			return nil
		case "Consequent":
			e, ok := value.(ast.Expression)
			if !ok {
				return badType()
			}
			p.Consequent = e
			return nil
		case "Alternate":
			e, ok := value.(ast.Expression)
			if !ok {
				return badType()
			}
			p.Alternate = e
			return nil
		}
	case *ast.SequenceExpression:
		if key.Field == "Expressions" {
			return setExprAt(p.Expressions, key.Index, value, badType)
		}
	case *ast.TemplateLiteral:
		if key.Field == "Expressions" {
			return setExprAt(p.Expressions, key.Index, value, badType)
		}
	case *ast.ArrayExpression:
		if key.Field == "Elements" {
			return setExprAt(p.Elements, key.Index, value, badType)
		}
	case *ast.ObjectExpression:
		if key.Field == "Properties" {
			prop, ok := value.(*ast.Property)
			if !ok {
				return badType()
			}
			if key.Index < 0 || key.Index >= len(p.Properties) {
				return errors.CommitInvariant("object property index out of range")
			}
			p.Properties[key.Index] = prop
			return nil
		}
	case *ast.Property:
		switch key.Field {
		case "Key":
			e, ok := value.(ast.Expression)
			if !ok {
				return badType()
			}
			p.Key = e
			return nil
		case "Value":
			e, ok := value.(ast.Expression)
			if !ok {
				return badType()
			}
			p.Value = e
			return nil
		}
	case *ast.BlockStatement:
		if key.Field == "Body" {
			return setStmtAt(p.Body, key.Index, value, badType)
		}
	case *ast.ExpressionStatement:
		if key.Field == "Expression" {
			e, ok := value.(ast.Expression)
			if !ok {
				return badType()
			}
			p.Expression = e
			return nil
		}
	case *ast.IfStatement:
		switch key.Field {
		case "Test":
			e, ok := value.(ast.Expression)
			if !ok {
				return badType()
			}
			p.Test = e
			return nil
		case "Consequent":
			s, ok := value.(ast.Statement)
			if !ok {
				return badType()
			}
			p.Consequent = s
			return nil
		case "Alternate":
			s, ok := value.(ast.Statement)
			if !ok {
				return badType()
			}
			p.Alternate = s
			return nil
		}
	case *ast.ForStatement:
		switch key.Field {
		case "Init":
			p.Init = value
			return nil
		case "Test":
			e, ok := value.(ast.Expression)
			if !ok {
				return badType()
			}
			p.Test = e
			return nil
		case "Update":
			e, ok := value.(ast.Expression)
			if !ok {
				return badType()
			}
			p.Update = e
			return nil
		case "Body":
			s, ok := value.(ast.Statement)
			if !ok {
				return badType()
			}
			p.Body = s
			return nil
		}
	case *ast.ForInStatement:
		return setForEach(&p.Left, &p.Right, &p.Body, key, value, badType)
	case *ast.ForOfStatement:
		return setForEach(&p.Left, &p.Right, &p.Body, key, value, badType)
	case *ast.WhileStatement:
		switch key.Field {
		case "Test":
			e, ok := value.(ast.Expression)
			if !ok {
				return badType()
			}
			p.Test = e
			return nil
		case "Body":
			s, ok := value.(ast.Statement)
			if !ok {
				return badType()
			}
			p.Body = s
			return nil
		}
	case *ast.DoWhileStatement:
		switch key.Field {
		case "Body":
			s, ok := value.(ast.Statement)
			if !ok {
				return badType()
			}
			p.Body = s
			return nil
		case "Test":
			e, ok := value.(ast.Expression)
			if !ok {
				return badType()
			}
			p.Test = e
			return nil
		}
	case *ast.SwitchStatement:
		switch key.Field {
		case "Discriminant":
			e, ok := value.(ast.Expression)
			if !ok {
				return badType()
			}
			p.Discriminant = e
			return nil
		case "Cases":
			c, ok := value.(*ast.SwitchCase)
			if !ok {
				return badType()
			}
			if key.Index < 0 || key.Index >= len(p.Cases) {
				return errors.CommitInvariant("switch case index out of range")
			}
			p.Cases[key.Index] = c
			return nil
		}
	case *ast.SwitchCase:
		switch key.Field {
		case "Test":
			e, ok := value.(ast.Expression)
			if !ok {
				return badType()
			}
			p.Test = e
			return nil
		case "Consequent":
			return setStmtAt(p.Consequent, key.Index, value, badType)
		}
	case *ast.ReturnStatement:
		if key.Field == "Argument" {
			e, ok := value.(ast.Expression)
			if !ok {
				return badType()
			}
			p.Argument = e
			return nil
		}
	case *ast.BreakStatement:
		if key.Field == "Label" {
			id, ok := value.(*ast.Identifier)
			if !ok {
				return badType()
			}
			p.Label = id
			return nil
		}
	case *ast.ContinueStatement:
		if key.Field == "Label" {
			id, ok := value.(*ast.Identifier)
			if !ok {
				return badType()
			}
			p.Label = id
			return nil
		}
	}
	return badType()
}

func setLeftRight(left, right *ast.Expression, key ast.ParentKey, value ast.Node, badType func() error) error {
	e, ok := value.(ast.Expression)
	if !ok {
		return badType()
	}
	switch key.Field {
	case "Left":
		*left = e
	case "Right":
		*right = e
	default:
		return badType()
	}
	return nil
}

func setForEach(left *ast.Node, right *ast.Expression, body *ast.Statement, key ast.ParentKey, value ast.Node, badType func() error) error {
	switch key.Field {
	case "Left":
		*left = value
		return nil
	case "Right":
		e, ok := value.(ast.Expression)
		if !ok {
			return badType()
		}
		*right = e
		return nil
	case "Body":
		s, ok := value.(ast.Statement)
		if !ok {
			return badType()
		}
		*body = s
		return nil
	}
	return badType()
}

func setExprAt(s []ast.Expression, i int, value ast.Node, badType func() error) error {
	e, ok := value.(ast.Expression)
	if !ok {
		return badType()
	}
	if i < 0 || i >= len(s) {
		return errors.CommitInvariant("expression index out of range")
	}
	s[i] = e
	return nil
}

func setStmtAt(s []ast.Statement, i int, value ast.Node, badType func() error) error {
	st, ok := value.(ast.Statement)
	if !ok {
		return badType()
	}
	if i < 0 || i >= len(s) {
		return errors.CommitInvariant("statement index out of range")
	}
	s[i] = st
	return nil
}

// spliceMany replaces the single statement at key's index with zero or
// more statements, shifting later elements accordingly. Used by rules
// that flatten one statement slot into several (or none).
func spliceMany(parent ast.Node, key ast.ParentKey, replacements []ast.Statement) error {
	outOfRange := func() error {
		return errors.CommitInvariant(fmt.Sprintf("splice-many index out of range at %s.%s", parent.Kind(), key))
	}
	switch p := parent.(type) {
	case *ast.Program:
		if key.Field == "Body" {
			if key.Index < 0 || key.Index >= len(p.Body) {
				return outOfRange()
			}
			p.Body = spliceStmts(p.Body, key.Index, replacements)
			return nil
		}
	case *ast.BlockStatement:
		if key.Field == "Body" {
			if key.Index < 0 || key.Index >= len(p.Body) {
				return outOfRange()
			}
			p.Body = spliceStmts(p.Body, key.Index, replacements)
			return nil
		}
	case *ast.SwitchCase:
		if key.Field == "Consequent" {
			if key.Index < 0 || key.Index >= len(p.Consequent) {
				return outOfRange()
			}
			p.Consequent = spliceStmts(p.Consequent, key.Index, replacements)
			return nil
		}
	}
	return errors.CommitInvariant(fmt.Sprintf("no splice-many rule for %s.%s", parent.Kind(), key))
}

func spliceStmts(body []ast.Statement, index int, replacements []ast.Statement) []ast.Statement {
	out := make([]ast.Statement, 0, len(body)-1+len(replacements))
	out = append(out, body[:index]...)
	out = append(out, replacements...)
	out = append(out, body[index+1:]...)
	return out
}

// spliceChild removes one element from an array-valued field, shifting
// later elements down. Used for deletions that resolved to
// ActionSplice.
func spliceChild(parent ast.Node, key ast.ParentKey) error {
	outOfRange := func() error {
		return errors.CommitInvariant(fmt.Sprintf("splice index out of range at %s.%s", parent.Kind(), key))
	}
	switch p := parent.(type) {
	case *ast.Program:
		if key.Field == "Body" {
			if key.Index < 0 || key.Index >= len(p.Body) {
				return outOfRange()
			}
			p.Body = append(p.Body[:key.Index:key.Index], p.Body[key.Index+1:]...)
			return nil
		}
	case *ast.BlockStatement:
		if key.Field == "Body" {
			if key.Index < 0 || key.Index >= len(p.Body) {
				return outOfRange()
			}
			p.Body = append(p.Body[:key.Index:key.Index], p.Body[key.Index+1:]...)
			return nil
		}
	case *ast.SwitchCase:
		if key.Field == "Consequent" {
			if key.Index < 0 || key.Index >= len(p.Consequent) {
				return outOfRange()
			}
			p.Consequent = append(p.Consequent[:key.Index:key.Index], p.Consequent[key.Index+1:]...)
			return nil
		}
	case *ast.CallExpression:
		if key.Field == "Arguments" {
			if key.Index < 0 || key.Index >= len(p.Arguments) {
				return outOfRange()
			}
			p.Arguments = append(p.Arguments[:key.Index:key.Index], p.Arguments[key.Index+1:]...)
			return nil
		}
	case *ast.NewExpression:
		if key.Field == "Arguments" {
			if key.Index < 0 || key.Index >= len(p.Arguments) {
				return outOfRange()
			}
			p.Arguments = append(p.Arguments[:key.Index:key.Index], p.Arguments[key.Index+1:]...)
			return nil
		}
	case *ast.ArrayExpression:
		if key.Field == "Elements" {
			if key.Index < 0 || key.Index >= len(p.Elements) {
				return outOfRange()
			}
			p.Elements = append(p.Elements[:key.Index:key.Index], p.Elements[key.Index+1:]...)
			return nil
		}
	case *ast.SequenceExpression:
		if key.Field == "Expressions" {
			if key.Index < 0 || key.Index >= len(p.Expressions) {
				return outOfRange()
			}
			p.Expressions = append(p.Expressions[:key.Index:key.Index], p.Expressions[key.Index+1:]...)
			return nil
		}
	case *ast.VariableDeclaration:
		if key.Field == "Declarations" {
			if key.Index < 0 || key.Index >= len(p.Declarations) {
				return outOfRange()
			}
			p.Declarations = append(p.Declarations[:key.Index:key.Index], p.Declarations[key.Index+1:]...)
			return nil
		}
	}
	return errors.CommitInvariant(fmt.Sprintf("no splice rule for %s.%s", parent.Kind(), key))
}
