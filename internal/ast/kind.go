package ast

// Kind tags every node with its concrete ESTree-ish variant. The engine
// buckets nodes by Kind in the type-index (Tree.TypeMap) instead of
// walking the whole tree for every rule pass.
type Kind uint8

const (
	KindProgram Kind = iota
	KindLiteral
	KindIdentifier
	KindThisExpression
	KindMemberExpression
	KindCallExpression
	KindNewExpression
	KindFunctionDeclaration
	KindFunctionExpression
	KindArrowFunctionExpression
	KindClassDeclaration
	KindMethodDefinition
	KindVariableDeclaration
	KindVariableDeclarator
	KindAssignmentExpression
	KindBinaryExpression
	KindLogicalExpression
	KindUnaryExpression
	KindUpdateExpression
	KindConditionalExpression
	KindSequenceExpression
	KindTemplateLiteral
	KindArrayExpression
	KindObjectExpression
	KindProperty
	KindBlockStatement
	KindExpressionStatement
	KindIfStatement
	KindForStatement
	KindForInStatement
	KindForOfStatement
	KindWhileStatement
	KindDoWhileStatement
	KindSwitchStatement
	KindSwitchCase
	KindReturnStatement
	KindBreakStatement
	KindContinueStatement
	KindEmptyStatement
	kindCount
)

var kindNames = [kindCount]string{
	KindProgram:                 "Program",
	KindLiteral:                 "Literal",
	KindIdentifier:              "Identifier",
	KindThisExpression:          "ThisExpression",
	KindMemberExpression:        "MemberExpression",
	KindCallExpression:          "CallExpression",
	KindNewExpression:           "NewExpression",
	KindFunctionDeclaration:     "FunctionDeclaration",
	KindFunctionExpression:      "FunctionExpression",
	KindArrowFunctionExpression: "ArrowFunctionExpression",
	KindClassDeclaration:        "ClassDeclaration",
	KindMethodDefinition:        "MethodDefinition",
	KindVariableDeclaration:     "VariableDeclaration",
	KindVariableDeclarator:      "VariableDeclarator",
	KindAssignmentExpression:    "AssignmentExpression",
	KindBinaryExpression:        "BinaryExpression",
	KindLogicalExpression:       "LogicalExpression",
	KindUnaryExpression:         "UnaryExpression",
	KindUpdateExpression:        "UpdateExpression",
	KindConditionalExpression:   "ConditionalExpression",
	KindSequenceExpression:      "SequenceExpression",
	KindTemplateLiteral:         "TemplateLiteral",
	KindArrayExpression:         "ArrayExpression",
	KindObjectExpression:        "ObjectExpression",
	KindProperty:                "Property",
	KindBlockStatement:          "BlockStatement",
	KindExpressionStatement:     "ExpressionStatement",
	KindIfStatement:             "IfStatement",
	KindForStatement:            "ForStatement",
	KindForInStatement:          "ForInStatement",
	KindForOfStatement:          "ForOfStatement",
	KindWhileStatement:          "WhileStatement",
	KindDoWhileStatement:        "DoWhileStatement",
	KindSwitchStatement:         "SwitchStatement",
	KindSwitchCase:              "SwitchCase",
	KindReturnStatement:         "ReturnStatement",
	KindBreakStatement:          "BreakStatement",
	KindContinueStatement:       "ContinueStatement",
	KindEmptyStatement:          "EmptyStatement",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Unknown"
}

// AllKinds returns every Kind in declaration order, used by reindex to
// assign node ids in a stable order.
func AllKinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}
