package cmd

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/thehangoversessions/sessionsapi/ops"
)

// FunctionArnKey is the stack output holding the API function's ARN.
const FunctionArnKey = "FunctionArn"

var AwsConfig aws.Config = ops.MustLoadDefaultAwsConfig()

type LambdaClient interface {
	Invoke(
		context.Context,
		*lambda.InvokeInput,
		...func(*lambda.Options),
	) (*lambda.InvokeOutput, error)
}

type LambdaClientFactoryFunc func() LambdaClient

func NewLambdaClient() LambdaClient {
	return lambda.NewFromConfig(AwsConfig)
}

type CloudFormationClient interface {
	DescribeStacks(
		context.Context,
		*cloudformation.DescribeStacksInput,
		...func(*cloudformation.Options),
	) (*cloudformation.DescribeStacksOutput, error)
}

func NewCloudFormationClient() CloudFormationClient {
	return cloudformation.NewFromConfig(AwsConfig)
}

func GetLambdaArn(
	ctx context.Context, client CloudFormationClient, stackName string,
) (arn string, err error) {
	input := &cloudformation.DescribeStacksInput{StackName: aws.String(stackName)}
	var output *cloudformation.DescribeStacksOutput

	if output, err = client.DescribeStacks(ctx, input); err != nil {
		const errFmt = "failed to get Lambda ARN for %s: %w"
		err = fmt.Errorf(errFmt, stackName, ops.AwsError(err))
		return
	} else if len(output.Stacks) == 0 {
		err = fmt.Errorf("stack not found: %s", stackName)
		return
	}

	for _, out := range output.Stacks[0].Outputs {
		if aws.ToString(out.OutputKey) == FunctionArnKey {
			return aws.ToString(out.OutputValue), nil
		}
	}
	const errFmt = `stack "%s" doesn't contain output key "%s"`
	err = fmt.Errorf(errFmt, stackName, FunctionArnKey)
	return
}
